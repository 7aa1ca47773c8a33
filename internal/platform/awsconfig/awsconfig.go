package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/imamik/sagerec/internal/config"
)

// Load resolves the AWS configuration for cfg. Static credentials win over
// the profile, which wins over the default credential chain.
func Load(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOptions(cfg)...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if awsCfg.Region == "" {
		return aws.Config{}, fmt.Errorf("no AWS region configured: set region in the config file or AWS_REGION")
	}
	return awsCfg, nil
}

func loadOptions(cfg *config.Config) []func(*awscfg.LoadOptions) error {
	var opts []func(*awscfg.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awscfg.WithRegion(cfg.Region))
	}

	switch {
	case cfg.Credentials.Static():
		c := cfg.Credentials
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken),
		))
	case cfg.Profile != "":
		opts = append(opts, awscfg.WithSharedConfigProfile(cfg.Profile))
	}
	return opts
}

// Identity is the principal the credentials resolve to.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// STSAPI is the subset of the STS client used here.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// NewSTS returns an STS client for awsCfg.
func NewSTS(awsCfg aws.Config) *sts.Client {
	return sts.NewFromConfig(awsCfg)
}

// CallerIdentity asks STS who the configured credentials belong to.
func CallerIdentity(ctx context.Context, api STSAPI) (*Identity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %w", err)
	}
	return &Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
