// Package project manages AWS::SageMaker::Project resources backed by a
// Service Catalog product.
package project

import (
	"context"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/errkind"
	smplatform "github.com/imamik/sagerec/internal/platform/sagemaker"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/stabilize"
)

// TypeName is the resource type handled by this package.
const TypeName = "AWS::SageMaker::Project"

// Model is a SageMaker project.
type Model struct {
	ProjectName                       *string              `json:"ProjectName,omitempty"`
	ProjectArn                        *string              `json:"ProjectArn,omitempty"`
	ProjectId                         *string              `json:"ProjectId,omitempty"`
	ProjectDescription                *string              `json:"ProjectDescription,omitempty"`
	ServiceCatalogProvisioningDetails *ProvisioningDetails `json:"ServiceCatalogProvisioningDetails,omitempty"`
	ProjectStatus                     *string              `json:"ProjectStatus,omitempty"`
	Tags                              []resource.Tag       `json:"Tags,omitempty"`
}

// ProvisioningDetails select the Service Catalog product behind a project.
type ProvisioningDetails struct {
	ProductId              *string     `json:"ProductId,omitempty"`
	ProvisioningArtifactId *string     `json:"ProvisioningArtifactId,omitempty"`
	PathId                 *string     `json:"PathId,omitempty"`
	ProvisioningParameters []Parameter `json:"ProvisioningParameters,omitempty"`
}

// Parameter is a Service Catalog provisioning parameter.
type Parameter struct {
	Key   *string `json:"Key,omitempty"`
	Value *string `json:"Value,omitempty"`
}

// API is the subset of the SageMaker client used for projects.
type API interface {
	CreateProject(ctx context.Context, in *sagemaker.CreateProjectInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateProjectOutput, error)
	DescribeProject(ctx context.Context, in *sagemaker.DescribeProjectInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeProjectOutput, error)
	UpdateProject(ctx context.Context, in *sagemaker.UpdateProjectInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdateProjectOutput, error)
	DeleteProject(ctx context.Context, in *sagemaker.DeleteProjectInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeleteProjectOutput, error)
	ListProjects(ctx context.Context, in *sagemaker.ListProjectsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListProjectsOutput, error)
}

// Statuses maps project statuses to phases per operation.
var Statuses = resource.StatusTable{
	resource.OperationCreate: {
		Success: []string{"CreateCompleted"},
		Failure: []string{"CreateFailed"},
		Pending: []string{"Pending", "CreateInProgress"},
	},
	resource.OperationUpdate: {
		Success: []string{"UpdateCompleted", "CreateCompleted"},
		Failure: []string{"UpdateFailed"},
		Pending: []string{"UpdateInProgress"},
	},
	resource.OperationDelete: {
		Success: []string{"DeleteCompleted"},
		Failure: []string{"DeleteFailed"},
		Pending: []string{"DeleteInProgress"},
	},
}

var notFound = []*regexp.Regexp{regexp.MustCompile(`(?i)project .* does not exist`)}

// New returns the project adapter. tags may be nil.
func New(api API, tags engine.TagAPI) *engine.Adapter[*Model] {
	a := &engine.Adapter[*Model]{
		TypeName:       TypeName,
		Identify:       func(m *Model) string { return aws.ToString(name(m)) },
		Statuses:       Statuses,
		Classifier:     errkind.NewClassifier(notFound, nil),
		PrecheckCreate: true,
		ValidateCreate: func(m *Model) error {
			errs := []error{
				resource.Required("ProjectName", m.ProjectName),
				resource.ReadOnly("ProjectArn", m.ProjectArn),
				resource.ReadOnly("ProjectId", m.ProjectId),
			}
			if d := m.ServiceCatalogProvisioningDetails; d == nil {
				errs = append(errs, resource.Required("ServiceCatalogProvisioningDetails.ProductId", nil))
			} else {
				errs = append(errs, resource.Required("ServiceCatalogProvisioningDetails.ProductId", d.ProductId))
			}
			return utilerrors.NewAggregate(errs)
		},
		Merge: func(current, desired *Model) *Model {
			m := *desired
			m.ProjectArn = resource.Inherit(current.ProjectArn, desired.ProjectArn)
			m.ProjectId = resource.Inherit(current.ProjectId, desired.ProjectId)
			m.ProjectDescription = resource.Inherit(current.ProjectDescription, desired.ProjectDescription)
			m.ServiceCatalogProvisioningDetails = mergeDetails(current.ServiceCatalogProvisioningDetails, desired.ServiceCatalogProvisioningDetails)
			return &m
		},
		ValidateUpdate: func(current, desired *Model) error {
			c, d := current.ServiceCatalogProvisioningDetails, desired.ServiceCatalogProvisioningDetails
			if c == nil || d == nil {
				return nil
			}
			return utilerrors.NewAggregate([]error{
				resource.Immutable("ServiceCatalogProvisioningDetails.ProductId", c.ProductId, d.ProductId),
				resource.Immutable("ServiceCatalogProvisioningDetails.PathId", c.PathId, d.PathId),
			})
		},
		Create: engine.Bind(
			func(m *Model) (*sagemaker.CreateProjectInput, error) {
				return &sagemaker.CreateProjectInput{
					ProjectName:                       m.ProjectName,
					ProjectDescription:                m.ProjectDescription,
					ServiceCatalogProvisioningDetails: m.ServiceCatalogProvisioningDetails.toSDK(),
					Tags:                              smplatform.CreateTags(m.Tags),
				}, nil
			},
			smplatform.Invoke(api.CreateProject),
			func(m *Model, out *sagemaker.CreateProjectOutput) *Model {
				created := *m
				created.ProjectArn = out.ProjectArn
				created.ProjectId = out.ProjectId
				return &created
			},
		),
		Update: engine.Bind(
			func(m *Model) (*sagemaker.UpdateProjectInput, error) {
				in := &sagemaker.UpdateProjectInput{
					ProjectName:        m.ProjectName,
					ProjectDescription: m.ProjectDescription,
				}
				if d := m.ServiceCatalogProvisioningDetails; d != nil {
					in.ServiceCatalogProvisioningUpdateDetails = &types.ServiceCatalogProvisioningUpdateDetails{
						ProvisioningArtifactId: d.ProvisioningArtifactId,
						ProvisioningParameters: parametersToSDK(d.ProvisioningParameters),
					}
				}
				return in, nil
			},
			smplatform.Invoke(api.UpdateProject),
			nil,
		),
		Delete: engine.Bind(
			func(m *Model) (*sagemaker.DeleteProjectInput, error) {
				return &sagemaker.DeleteProjectInput{ProjectName: name(m)}, nil
			},
			smplatform.Invoke(api.DeleteProject),
			nil,
		),
		Describe: func(ctx context.Context, m *Model) (stabilize.Observation[*Model], error) {
			if name(m) == nil {
				return stabilize.Observation[*Model]{}, errkind.Invalid("ProjectName is required")
			}
			out, err := api.DescribeProject(ctx, &sagemaker.DescribeProjectInput{ProjectName: name(m)})
			if err != nil {
				return stabilize.Observation[*Model]{}, smplatform.MissingAsNotFound(err, TypeName, aws.ToString(name(m)), notFound...)
			}
			return stabilize.Observation[*Model]{
				Model: &Model{
					ProjectName:                       out.ProjectName,
					ProjectArn:                        out.ProjectArn,
					ProjectId:                         out.ProjectId,
					ProjectDescription:                out.ProjectDescription,
					ServiceCatalogProvisioningDetails: detailsFromSDK(out.ServiceCatalogProvisioningDetails),
					ProjectStatus:                     aws.String(string(out.ProjectStatus)),
				},
				Status: string(out.ProjectStatus),
			}, nil
		},
		List: func(ctx context.Context, _ *Model, token string) ([]*Model, string, error) {
			in := &sagemaker.ListProjectsInput{}
			if token != "" {
				in.NextToken = aws.String(token)
			}
			out, err := api.ListProjects(ctx, in)
			if err != nil {
				return nil, "", err
			}
			models := make([]*Model, 0, len(out.ProjectSummaryList))
			for _, p := range out.ProjectSummaryList {
				models = append(models, &Model{
					ProjectName:        p.ProjectName,
					ProjectArn:         p.ProjectArn,
					ProjectId:          p.ProjectId,
					ProjectDescription: p.ProjectDescription,
					ProjectStatus:      aws.String(string(p.ProjectStatus)),
				})
			}
			return models, aws.ToString(out.NextToken), nil
		},
	}

	if tags != nil {
		a.Tags = &engine.TagSupport[*Model]{
			API:     tags,
			Target:  func(m *Model) string { return aws.ToString(m.ProjectArn) },
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

func name(m *Model) *string {
	if m == nil {
		return nil
	}
	return m.ProjectName
}

func mergeDetails(current, desired *ProvisioningDetails) *ProvisioningDetails {
	if desired == nil {
		return current
	}
	if current == nil {
		return desired
	}
	d := *desired
	d.ProductId = resource.Inherit(current.ProductId, desired.ProductId)
	d.PathId = resource.Inherit(current.PathId, desired.PathId)
	d.ProvisioningArtifactId = resource.Inherit(current.ProvisioningArtifactId, desired.ProvisioningArtifactId)
	if d.ProvisioningParameters == nil {
		d.ProvisioningParameters = current.ProvisioningParameters
	}
	return &d
}

func (d *ProvisioningDetails) toSDK() *types.ServiceCatalogProvisioningDetails {
	if d == nil {
		return nil
	}
	return &types.ServiceCatalogProvisioningDetails{
		ProductId:              d.ProductId,
		ProvisioningArtifactId: d.ProvisioningArtifactId,
		PathId:                 d.PathId,
		ProvisioningParameters: parametersToSDK(d.ProvisioningParameters),
	}
}

func detailsFromSDK(d *types.ServiceCatalogProvisioningDetails) *ProvisioningDetails {
	if d == nil {
		return nil
	}
	out := &ProvisioningDetails{
		ProductId:              d.ProductId,
		ProvisioningArtifactId: d.ProvisioningArtifactId,
		PathId:                 d.PathId,
	}
	for _, p := range d.ProvisioningParameters {
		out.ProvisioningParameters = append(out.ProvisioningParameters, Parameter{Key: p.Key, Value: p.Value})
	}
	return out
}

func parametersToSDK(params []Parameter) []types.ProvisioningParameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]types.ProvisioningParameter, 0, len(params))
	for _, p := range params {
		out = append(out, types.ProvisioningParameter{Key: p.Key, Value: p.Value})
	}
	return out
}
