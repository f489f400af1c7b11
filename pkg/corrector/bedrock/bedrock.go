// Package bedrock provides a corrector backed by AWS Bedrock via the
// Converse API.
//
// Credentials resolve the AWS way rather than through a flat API key: a
// static access-key/secret-key pair (both halves required when either is
// set) or a named shared-config profile. The region and the Bedrock model
// identifier are always required.
package bedrock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/tkoeppen/clarivox/pkg/corrector"
)

// Compile-time assertion that Corrector implements corrector.Corrector.
var _ corrector.Corrector = (*Corrector)(nil)

// Config carries the Bedrock connection settings.
type Config struct {
	// Region is the AWS region hosting the model. Required.
	Region string

	// ModelID is the Bedrock model identifier. Required.
	ModelID string

	// Profile names a shared-config AWS profile. Used when no static key
	// pair is given.
	Profile string

	// AccessKeyID and SecretAccessKey form a static credential pair.
	AccessKeyID     string
	SecretAccessKey string

	// SessionToken is the optional STS token accompanying temporary keys.
	SessionToken string
}

// Corrector is an AWS Bedrock backed corrector. Safe for concurrent use;
// each Correct call issues exactly one Converse request.
type Corrector struct {
	client       *bedrockruntime.Client
	modelID      string
	systemPrompt string
}

// New constructs a Bedrock corrector. ctx is used for AWS configuration
// loading only; it does not bind the corrector's lifetime.
func New(ctx context.Context, cfg Config, systemPrompt string) (*Corrector, error) {
	if cfg.Region == "" {
		return nil, errors.New("bedrock: region must not be empty")
	}
	if cfg.ModelID == "" {
		return nil, errors.New("bedrock: model id must not be empty")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	switch {
	case cfg.AccessKeyID != "" || cfg.SecretAccessKey != "":
		if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
			return nil, errors.New("bedrock: both access key id and secret access key are required for key-based auth")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	case cfg.Profile != "":
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	default:
		return nil, errors.New("bedrock: missing credentials: set an access key pair or a profile")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}

	return &Corrector{
		client:       bedrockruntime.NewFromConfig(awsCfg),
		modelID:      cfg.ModelID,
		systemPrompt: systemPrompt,
	}, nil
}

// Correct implements corrector.Corrector.
func (c *Corrector) Correct(ctx context.Context, rawText string) (string, error) {
	out, err := c.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: c.systemPrompt},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: rawText},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(corrector.Temperature),
			MaxTokens:   aws.Int32(corrector.MaxTokens),
		},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("bedrock: %w", corrector.ErrNoContent)
	}
	for _, block := range msg.Value.Content {
		text, ok := block.(*types.ContentBlockMemberText)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(text.Value); trimmed != "" {
			return trimmed, nil
		}
	}
	return "", fmt.Errorf("bedrock: %w", corrector.ErrNoContent)
}
