package extractor

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/intellidoc/backend/pkg/logger"
)

// TextractConfig configures the remote OCR backend.
type TextractConfig struct {
	Region        string
	AccessKey     string
	SecretKey     string
	MinConfidence float32
}

type textractOCR struct {
	client *textract.Client
	config *TextractConfig
	logger logger.Logger
}

func newTextractOCR(ctx context.Context, cfg *TextractConfig, log logger.Logger) (*textractOCR, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("missing AWS credentials")
	}

	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = 80.0
	}

	return &textractOCR{
		client: textract.NewFromConfig(awsCfg),
		config: cfg,
		logger: log,
	}, nil
}

// DetectText runs synchronous text detection and joins line blocks above the
// confidence floor.
func (t *textractOCR) DetectText(ctx context.Context, data []byte) (string, error) {
	result, err := t.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{
			Bytes: data,
		},
	})
	if err != nil {
		return "", fmt.Errorf("textract detection failed: %w", err)
	}

	var lines []string
	for _, block := range result.Blocks {
		if block.BlockType != types.BlockTypeLine {
			continue
		}
		if block.Confidence != nil && *block.Confidence < t.config.MinConfidence {
			continue
		}
		if block.Text != nil {
			lines = append(lines, *block.Text)
		}
	}

	return strings.Join(lines, "\n"), nil
}
