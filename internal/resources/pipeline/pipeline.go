// Package pipeline manages AWS::SageMaker::Pipeline resources.
//
// Pipelines become Active synchronously, so create and update usually
// finish on the first poll. Create checks for an existing pipeline first
// because CreatePipeline is idempotent on its client token rather than on
// the name.
package pipeline

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/google/uuid"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/errkind"
	smplatform "github.com/imamik/sagerec/internal/platform/sagemaker"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/stabilize"
)

// TypeName is the resource type handled by this package.
const TypeName = "AWS::SageMaker::Pipeline"

// Model is a SageMaker pipeline.
type Model struct {
	PipelineName        *string `json:"PipelineName,omitempty"`
	PipelineArn         *string `json:"PipelineArn,omitempty"`
	PipelineDisplayName *string `json:"PipelineDisplayName,omitempty"`
	PipelineDescription *string `json:"PipelineDescription,omitempty"`
	RoleArn             *string `json:"RoleArn,omitempty"`
	// PipelineDefinitionBody is the JSON pipeline definition.
	PipelineDefinitionBody       *string        `json:"PipelineDefinitionBody,omitempty"`
	PipelineDefinitionS3Location *S3Location    `json:"PipelineDefinitionS3Location,omitempty"`
	MaxParallelExecutionSteps    *int32         `json:"MaxParallelExecutionSteps,omitempty"`
	PipelineStatus               *string        `json:"PipelineStatus,omitempty"`
	Tags                         []resource.Tag `json:"Tags,omitempty"`
}

// S3Location points at a pipeline definition stored in S3.
type S3Location struct {
	Bucket    *string `json:"Bucket,omitempty"`
	Key       *string `json:"Key,omitempty"`
	VersionId *string `json:"VersionId,omitempty"`
}

// API is the subset of the SageMaker client used for pipelines.
type API interface {
	CreatePipeline(ctx context.Context, in *sagemaker.CreatePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreatePipelineOutput, error)
	DescribePipeline(ctx context.Context, in *sagemaker.DescribePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribePipelineOutput, error)
	UpdatePipeline(ctx context.Context, in *sagemaker.UpdatePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdatePipelineOutput, error)
	DeletePipeline(ctx context.Context, in *sagemaker.DeletePipelineInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeletePipelineOutput, error)
	ListPipelines(ctx context.Context, in *sagemaker.ListPipelinesInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListPipelinesOutput, error)
}

// Statuses maps pipeline statuses to phases per operation.
var Statuses = resource.StatusTable{
	resource.OperationCreate: {Success: []string{"Active"}},
	resource.OperationUpdate: {Success: []string{"Active"}},
	resource.OperationDelete: {Pending: []string{"Deleting"}},
}

// New returns the pipeline adapter. tags may be nil.
func New(api API, tags engine.TagAPI) *engine.Adapter[*Model] {
	a := &engine.Adapter[*Model]{
		TypeName:       TypeName,
		Identify:       func(m *Model) string { return aws.ToString(name(m)) },
		Statuses:       Statuses,
		PrecheckCreate: true,
		ValidateCreate: func(m *Model) error {
			errs := []error{
				resource.Required("PipelineName", m.PipelineName),
				resource.Required("RoleArn", m.RoleArn),
				resource.ReadOnly("PipelineArn", m.PipelineArn),
			}
			if m.PipelineDefinitionBody == nil && m.PipelineDefinitionS3Location == nil {
				errs = append(errs, errors.New("one of PipelineDefinitionBody or PipelineDefinitionS3Location is required"))
			}
			return utilerrors.NewAggregate(errs)
		},
		Merge: func(current, desired *Model) *Model {
			m := *desired
			m.PipelineName = resource.Inherit(current.PipelineName, desired.PipelineName)
			m.PipelineArn = resource.Inherit(current.PipelineArn, desired.PipelineArn)
			m.PipelineDisplayName = resource.Inherit(current.PipelineDisplayName, desired.PipelineDisplayName)
			m.PipelineDescription = resource.Inherit(current.PipelineDescription, desired.PipelineDescription)
			m.RoleArn = resource.Inherit(current.RoleArn, desired.RoleArn)
			m.MaxParallelExecutionSteps = resource.Inherit(current.MaxParallelExecutionSteps, desired.MaxParallelExecutionSteps)
			if m.PipelineDefinitionBody == nil && m.PipelineDefinitionS3Location == nil {
				m.PipelineDefinitionBody = current.PipelineDefinitionBody
			}
			return &m
		},
		Create: engine.Bind(
			func(m *Model) (*sagemaker.CreatePipelineInput, error) {
				return &sagemaker.CreatePipelineInput{
					PipelineName:                 m.PipelineName,
					ClientRequestToken:           aws.String(uuid.NewString()),
					RoleArn:                      m.RoleArn,
					PipelineDisplayName:          m.PipelineDisplayName,
					PipelineDescription:          m.PipelineDescription,
					PipelineDefinition:           m.PipelineDefinitionBody,
					PipelineDefinitionS3Location: m.PipelineDefinitionS3Location.toSDK(),
					ParallelismConfiguration:     parallelism(m.MaxParallelExecutionSteps),
					Tags:                         smplatform.CreateTags(m.Tags),
				}, nil
			},
			smplatform.Invoke(api.CreatePipeline),
			func(m *Model, out *sagemaker.CreatePipelineOutput) *Model {
				created := *m
				created.PipelineArn = out.PipelineArn
				return &created
			},
		),
		Update: engine.Bind(
			func(m *Model) (*sagemaker.UpdatePipelineInput, error) {
				return &sagemaker.UpdatePipelineInput{
					PipelineName:                 m.PipelineName,
					RoleArn:                      m.RoleArn,
					PipelineDisplayName:          m.PipelineDisplayName,
					PipelineDescription:          m.PipelineDescription,
					PipelineDefinition:           m.PipelineDefinitionBody,
					PipelineDefinitionS3Location: m.PipelineDefinitionS3Location.toSDK(),
					ParallelismConfiguration:     parallelism(m.MaxParallelExecutionSteps),
				}, nil
			},
			smplatform.Invoke(api.UpdatePipeline),
			nil,
		),
		Delete: engine.Bind(
			func(m *Model) (*sagemaker.DeletePipelineInput, error) {
				return &sagemaker.DeletePipelineInput{
					PipelineName:       name(m),
					ClientRequestToken: aws.String(uuid.NewString()),
				}, nil
			},
			smplatform.Invoke(api.DeletePipeline),
			nil,
		),
		Describe: func(ctx context.Context, m *Model) (stabilize.Observation[*Model], error) {
			if name(m) == nil {
				return stabilize.Observation[*Model]{}, errkind.Invalid("PipelineName is required")
			}
			out, err := api.DescribePipeline(ctx, &sagemaker.DescribePipelineInput{PipelineName: name(m)})
			if err != nil {
				return stabilize.Observation[*Model]{}, smplatform.MissingAsNotFound(err, TypeName, aws.ToString(name(m)))
			}
			observed := &Model{
				PipelineName:           out.PipelineName,
				PipelineArn:            out.PipelineArn,
				PipelineDisplayName:    out.PipelineDisplayName,
				PipelineDescription:    out.PipelineDescription,
				RoleArn:                out.RoleArn,
				PipelineDefinitionBody: out.PipelineDefinition,
				PipelineStatus:         aws.String(string(out.PipelineStatus)),
			}
			if out.ParallelismConfiguration != nil {
				observed.MaxParallelExecutionSteps = out.ParallelismConfiguration.MaxParallelExecutionSteps
			}
			return stabilize.Observation[*Model]{Model: observed, Status: string(out.PipelineStatus)}, nil
		},
		List: func(ctx context.Context, _ *Model, token string) ([]*Model, string, error) {
			in := &sagemaker.ListPipelinesInput{}
			if token != "" {
				in.NextToken = aws.String(token)
			}
			out, err := api.ListPipelines(ctx, in)
			if err != nil {
				return nil, "", err
			}
			models := make([]*Model, 0, len(out.PipelineSummaries))
			for _, p := range out.PipelineSummaries {
				models = append(models, &Model{
					PipelineName:        p.PipelineName,
					PipelineArn:         p.PipelineArn,
					PipelineDisplayName: p.PipelineDisplayName,
					PipelineDescription: p.PipelineDescription,
					RoleArn:             p.RoleArn,
				})
			}
			return models, aws.ToString(out.NextToken), nil
		},
	}

	if tags != nil {
		a.Tags = &engine.TagSupport[*Model]{
			API:     tags,
			Target:  func(m *Model) string { return aws.ToString(m.PipelineArn) },
			Desired: func(m *Model) []resource.Tag { return m.Tags },
			Attach: func(m *Model, t map[string]string) *Model {
				out := *m
				out.Tags = resource.TagsFromMap(t)
				return &out
			},
		}
	}
	return a
}

// name returns the pipeline name, falling back to the ARN which the
// describe and delete APIs accept as well.
func name(m *Model) *string {
	if m == nil {
		return nil
	}
	if m.PipelineName != nil {
		return m.PipelineName
	}
	return m.PipelineArn
}

func (l *S3Location) toSDK() *types.PipelineDefinitionS3Location {
	if l == nil {
		return nil
	}
	return &types.PipelineDefinitionS3Location{
		Bucket:    l.Bucket,
		ObjectKey: l.Key,
		VersionId: l.VersionId,
	}
}

func parallelism(steps *int32) *types.ParallelismConfiguration {
	if steps == nil {
		return nil
	}
	return &types.ParallelismConfiguration{MaxParallelExecutionSteps: steps}
}
