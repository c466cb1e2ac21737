package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/markdave123-py/resumeapp/internal/core"
)

const DefaultBedrockModel = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

type converseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockLLM calls a hosted model through the Bedrock Converse API.
type BedrockLLM struct {
	client    converseAPI
	modelName string
}

var _ core.LLMProvider = (*BedrockLLM)(nil)

func NewBedrockLLM(awsCfg aws.Config, modelName string) *BedrockLLM {
	return newBedrockLLM(bedrockruntime.NewFromConfig(awsCfg), modelName)
}

func newBedrockLLM(client converseAPI, modelName string) *BedrockLLM {
	if modelName == "" {
		modelName = DefaultBedrockModel
	}
	return &BedrockLLM{client: client, modelName: modelName}
}

func (b *BedrockLLM) Name() string { return "bedrock" }

func (b *BedrockLLM) Generate(ctx context.Context, systemPrompt, userPrompt string, opts core.GenerateOptions) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(b.modelName),
		Messages: []brtypes.Message{{
			Role:    brtypes.ConversationRoleUser,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: userPrompt}},
		}},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(opts.MaxTokens),
			Temperature: aws.Float32(opts.Temperature),
			TopP:        aws.Float32(opts.TopP),
		},
	}
	if systemPrompt != "" {
		input.System = []brtypes.SystemContentBlock{&brtypes.SystemContentBlockMemberText{Value: systemPrompt}}
	}

	out, err := b.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("bedrock converse: %w", err)
	}

	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", nil
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if t, ok := block.(*brtypes.ContentBlockMemberText); ok {
			sb.WriteString(t.Value)
		}
	}
	return sb.String(), nil
}
