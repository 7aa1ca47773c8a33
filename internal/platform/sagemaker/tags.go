package sagemaker

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"

	"github.com/imamik/sagerec/internal/resource"
)

// TagsAPI is the tagging subset of the SageMaker client.
type TagsAPI interface {
	ListTags(ctx context.Context, in *sagemaker.ListTagsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListTagsOutput, error)
	AddTags(ctx context.Context, in *sagemaker.AddTagsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.AddTagsOutput, error)
	DeleteTags(ctx context.Context, in *sagemaker.DeleteTagsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeleteTagsOutput, error)
}

// Tagger manages tags of SageMaker resources addressed by ARN.
type Tagger struct {
	api TagsAPI
}

// NewTagger returns a Tagger over api.
func NewTagger(api TagsAPI) *Tagger {
	return &Tagger{api: api}
}

// ListTags returns every tag of arn.
func (t *Tagger) ListTags(ctx context.Context, arn string) (map[string]string, error) {
	out := map[string]string{}
	pages := sagemaker.NewListTagsPaginator(t.api, &sagemaker.ListTagsInput{ResourceArn: aws.String(arn)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags of %s: %w", arn, err)
		}
		for k, v := range FromSDKTags(page.Tags) {
			out[k] = v
		}
	}
	return out, nil
}

// AddTags adds or overwrites tags on arn.
func (t *Tagger) AddTags(ctx context.Context, arn string, tags map[string]string) error {
	_, err := t.api.AddTags(ctx, &sagemaker.AddTagsInput{
		ResourceArn: aws.String(arn),
		Tags:        ToSDKTags(tags),
	})
	if err != nil {
		return fmt.Errorf("failed to add tags to %s: %w", arn, err)
	}
	return nil
}

// RemoveTags deletes tag keys from arn.
func (t *Tagger) RemoveTags(ctx context.Context, arn string, keys []string) error {
	_, err := t.api.DeleteTags(ctx, &sagemaker.DeleteTagsInput{
		ResourceArn: aws.String(arn),
		TagKeys:     keys,
	})
	if err != nil {
		return fmt.Errorf("failed to remove tags from %s: %w", arn, err)
	}
	return nil
}

// ToSDKTags converts a tag map to SDK tags sorted by key.
func ToSDKTags(tags map[string]string) []types.Tag {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}

// FromSDKTags converts SDK tags to a map. Tags without a key are dropped.
func FromSDKTags(tags []types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key == nil {
			continue
		}
		out[*t.Key] = aws.ToString(t.Value)
	}
	return out
}

// CreateTags converts model tags for a create request. Tags with a nil key
// are skipped; validation rejects them before any request is built.
func CreateTags(tags []resource.Tag) []types.Tag {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key == nil {
			continue
		}
		m[*t.Key] = aws.ToString(t.Value)
	}
	return ToSDKTags(m)
}
