// Package modelpackage manages AWS::SageMaker::ModelPackage resources.
//
// A package is either unversioned (ModelPackageName) or a version inside a
// model package group (ModelPackageGroupName). Versioned packages are only
// addressable by ARN once created.
package modelpackage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

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
const TypeName = "AWS::SageMaker::ModelPackage"

// Model is a SageMaker model package.
type Model struct {
	ModelPackageName           *string                 `json:"ModelPackageName,omitempty"`
	ModelPackageGroupName      *string                 `json:"ModelPackageGroupName,omitempty"`
	ModelPackageArn            *string                 `json:"ModelPackageArn,omitempty"`
	ModelPackageVersion        *int32                  `json:"ModelPackageVersion,omitempty"`
	ModelPackageDescription    *string                 `json:"ModelPackageDescription,omitempty"`
	InferenceSpecification     *InferenceSpecification `json:"InferenceSpecification,omitempty"`
	ModelApprovalStatus        *string                 `json:"ModelApprovalStatus,omitempty"`
	ApprovalDescription        *string                 `json:"ApprovalDescription,omitempty"`
	CustomerMetadataProperties map[string]string       `json:"CustomerMetadataProperties,omitempty"`
	ModelPackageStatus         *string                 `json:"ModelPackageStatus,omitempty"`
	Tags                       []resource.Tag          `json:"Tags,omitempty"`

	// metadataToRemove is filled by merge with keys dropped from
	// CustomerMetadataProperties.
	metadataToRemove []string
}

// InferenceSpecification describes the containers and content types of a
// package. It cannot change after creation.
type InferenceSpecification struct {
	Containers                 []Container `json:"Containers,omitempty"`
	SupportedContentTypes      []string    `json:"SupportedContentTypes,omitempty"`
	SupportedResponseMIMETypes []string    `json:"SupportedResponseMIMETypes,omitempty"`
}

// Container is one inference container.
type Container struct {
	Image        *string `json:"Image,omitempty"`
	ModelDataUrl *string `json:"ModelDataUrl,omitempty"`
}

// API is the subset of the SageMaker client used for model packages.
type API interface {
	CreateModelPackage(ctx context.Context, in *sagemaker.CreateModelPackageInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateModelPackageOutput, error)
	DescribeModelPackage(ctx context.Context, in *sagemaker.DescribeModelPackageInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeModelPackageOutput, error)
	UpdateModelPackage(ctx context.Context, in *sagemaker.UpdateModelPackageInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdateModelPackageOutput, error)
	DeleteModelPackage(ctx context.Context, in *sagemaker.DeleteModelPackageInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeleteModelPackageOutput, error)
	ListModelPackages(ctx context.Context, in *sagemaker.ListModelPackagesInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListModelPackagesOutput, error)
}

// Statuses maps model package statuses to phases per operation.
var Statuses = resource.StatusTable{
	resource.OperationCreate: {
		Success: []string{"Completed"},
		Failure: []string{"Failed"},
		Pending: []string{"Pending", "InProgress"},
	},
	resource.OperationUpdate: {
		Success: []string{"Completed"},
		Failure: []string{"Failed"},
		Pending: []string{"Pending", "InProgress"},
	},
	resource.OperationDelete: {
		Failure: []string{"Failed"},
		Pending: []string{"Deleting"},
	},
}

var approvalStatuses = []string{"Approved", "Rejected", "PendingManualApproval"}

// New returns the model package adapter. tags may be nil.
func New(api API, tags engine.TagAPI) *engine.Adapter[*Model] {
	a := &engine.Adapter[*Model]{
		TypeName: TypeName,
		Identify: func(m *Model) string { return aws.ToString(key(m)) },
		Statuses: Statuses,
		ValidateCreate: func(m *Model) error {
			var errs []error
			switch {
			case m.ModelPackageName != nil && m.ModelPackageGroupName != nil:
				errs = append(errs, errors.New("only one of ModelPackageName or ModelPackageGroupName may be set"))
			case m.ModelPackageName == nil && m.ModelPackageGroupName == nil:
				errs = append(errs, errors.New("one of ModelPackageName or ModelPackageGroupName is required"))
			}
			errs = append(errs,
				resource.ReadOnly("ModelPackageArn", m.ModelPackageArn),
				validApproval(m.ModelApprovalStatus),
			)
			if m.ModelPackageVersion != nil {
				errs = append(errs, errors.New("ModelPackageVersion is read-only and cannot be set"))
			}
			return utilerrors.NewAggregate(errs)
		},
		Merge: merge,
		ValidateUpdate: func(current, desired *Model) error {
			errs := []error{
				resource.Immutable("ModelPackageName", current.ModelPackageName, desired.ModelPackageName),
				resource.Immutable("ModelPackageGroupName", current.ModelPackageGroupName, desired.ModelPackageGroupName),
				validApproval(desired.ModelApprovalStatus),
			}
			if !current.InferenceSpecification.equal(desired.InferenceSpecification) {
				errs = append(errs, errors.New("InferenceSpecification cannot be changed"))
			}
			return utilerrors.NewAggregate(errs)
		},
		Create: engine.Bind(
			func(m *Model) (*sagemaker.CreateModelPackageInput, error) {
				return &sagemaker.CreateModelPackageInput{
					ModelPackageName:           m.ModelPackageName,
					ModelPackageGroupName:      m.ModelPackageGroupName,
					ModelPackageDescription:    m.ModelPackageDescription,
					InferenceSpecification:     m.InferenceSpecification.toSDK(),
					ModelApprovalStatus:        types.ModelApprovalStatus(aws.ToString(m.ModelApprovalStatus)),
					CustomerMetadataProperties: m.CustomerMetadataProperties,
					ClientToken:                aws.String(uuid.NewString()),
					Tags:                       smplatform.CreateTags(m.Tags),
				}, nil
			},
			smplatform.Invoke(api.CreateModelPackage),
			func(m *Model, out *sagemaker.CreateModelPackageOutput) *Model {
				created := *m
				created.ModelPackageArn = out.ModelPackageArn
				return &created
			},
		),
		Update: engine.Bind(
			func(m *Model) (*sagemaker.UpdateModelPackageInput, error) {
				if m.ModelPackageArn == nil {
					return nil, errors.New("ModelPackageArn is required")
				}
				return &sagemaker.UpdateModelPackageInput{
					ModelPackageArn:                    m.ModelPackageArn,
					ModelApprovalStatus:                types.ModelApprovalStatus(aws.ToString(m.ModelApprovalStatus)),
					ApprovalDescription:                m.ApprovalDescription,
					CustomerMetadataProperties:         m.CustomerMetadataProperties,
					CustomerMetadataPropertiesToRemove: m.metadataToRemove,
				}, nil
			},
			smplatform.Invoke(api.UpdateModelPackage),
			nil,
		),
		Delete: engine.Bind(
			func(m *Model) (*sagemaker.DeleteModelPackageInput, error) {
				return &sagemaker.DeleteModelPackageInput{ModelPackageName: key(m)}, nil
			},
			smplatform.Invoke(api.DeleteModelPackage),
			nil,
		),
		Describe: func(ctx context.Context, m *Model) (stabilize.Observation[*Model], error) {
			if key(m) == nil {
				return stabilize.Observation[*Model]{}, errkind.Invalid("ModelPackageArn or ModelPackageName is required")
			}
			out, err := api.DescribeModelPackage(ctx, &sagemaker.DescribeModelPackageInput{ModelPackageName: key(m)})
			if err != nil {
				return stabilize.Observation[*Model]{}, smplatform.MissingAsNotFound(err, TypeName, aws.ToString(key(m)))
			}
			return stabilize.Observation[*Model]{Model: fromDescribe(out), Status: string(out.ModelPackageStatus)}, nil
		},
		List: func(ctx context.Context, scope *Model, token string) ([]*Model, string, error) {
			in := &sagemaker.ListModelPackagesInput{}
			if scope != nil {
				in.ModelPackageGroupName = scope.ModelPackageGroupName
			}
			if token != "" {
				in.NextToken = aws.String(token)
			}
			out, err := api.ListModelPackages(ctx, in)
			if err != nil {
				return nil, "", err
			}
			models := make([]*Model, 0, len(out.ModelPackageSummaryList))
			for _, p := range out.ModelPackageSummaryList {
				models = append(models, &Model{
					ModelPackageName:        p.ModelPackageName,
					ModelPackageGroupName:   p.ModelPackageGroupName,
					ModelPackageArn:         p.ModelPackageArn,
					ModelPackageVersion:     p.ModelPackageVersion,
					ModelPackageDescription: p.ModelPackageDescription,
					ModelApprovalStatus:     optional(string(p.ModelApprovalStatus)),
					ModelPackageStatus:      optional(string(p.ModelPackageStatus)),
				})
			}
			return models, aws.ToString(out.NextToken), nil
		},
	}

	if tags != nil {
		a.Tags = &engine.TagSupport[*Model]{
			API:     tags,
			Target:  func(m *Model) string { return aws.ToString(m.ModelPackageArn) },
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

// key returns the value accepted by describe and delete: the ARN when known,
// otherwise the unversioned name.
func key(m *Model) *string {
	if m == nil {
		return nil
	}
	if m.ModelPackageArn != nil {
		return m.ModelPackageArn
	}
	return m.ModelPackageName
}

func merge(current, desired *Model) *Model {
	m := *desired
	m.ModelPackageArn = resource.Inherit(current.ModelPackageArn, desired.ModelPackageArn)
	m.ModelPackageName = resource.Inherit(current.ModelPackageName, desired.ModelPackageName)
	m.ModelPackageGroupName = resource.Inherit(current.ModelPackageGroupName, desired.ModelPackageGroupName)
	m.ModelPackageVersion = current.ModelPackageVersion
	m.ModelPackageDescription = resource.Inherit(current.ModelPackageDescription, desired.ModelPackageDescription)
	m.InferenceSpecification = resource.Inherit(current.InferenceSpecification, desired.InferenceSpecification)
	m.ModelApprovalStatus = resource.Inherit(current.ModelApprovalStatus, desired.ModelApprovalStatus)
	m.ApprovalDescription = resource.Inherit(current.ApprovalDescription, desired.ApprovalDescription)

	m.metadataToRemove = nil
	if desired.CustomerMetadataProperties == nil {
		m.CustomerMetadataProperties = current.CustomerMetadataProperties
	} else {
		for k := range current.CustomerMetadataProperties {
			if _, ok := desired.CustomerMetadataProperties[k]; !ok {
				m.metadataToRemove = append(m.metadataToRemove, k)
			}
		}
		sort.Strings(m.metadataToRemove)
	}
	return &m
}

func fromDescribe(out *sagemaker.DescribeModelPackageOutput) *Model {
	m := &Model{
		ModelPackageName:           out.ModelPackageName,
		ModelPackageGroupName:      out.ModelPackageGroupName,
		ModelPackageArn:            out.ModelPackageArn,
		ModelPackageVersion:        out.ModelPackageVersion,
		ModelPackageDescription:    out.ModelPackageDescription,
		ModelApprovalStatus:        optional(string(out.ModelApprovalStatus)),
		ApprovalDescription:        out.ApprovalDescription,
		CustomerMetadataProperties: out.CustomerMetadataProperties,
		ModelPackageStatus:         optional(string(out.ModelPackageStatus)),
	}
	if spec := out.InferenceSpecification; spec != nil {
		m.InferenceSpecification = &InferenceSpecification{
			SupportedContentTypes:      spec.SupportedContentTypes,
			SupportedResponseMIMETypes: spec.SupportedResponseMIMETypes,
		}
		for _, c := range spec.Containers {
			m.InferenceSpecification.Containers = append(m.InferenceSpecification.Containers, Container{
				Image:        c.Image,
				ModelDataUrl: c.ModelDataUrl,
			})
		}
	}
	return m
}

func (s *InferenceSpecification) toSDK() *types.InferenceSpecification {
	if s == nil {
		return nil
	}
	out := &types.InferenceSpecification{
		SupportedContentTypes:      s.SupportedContentTypes,
		SupportedResponseMIMETypes: s.SupportedResponseMIMETypes,
	}
	for _, c := range s.Containers {
		out.Containers = append(out.Containers, types.ModelPackageContainerDefinition{
			Image:        c.Image,
			ModelDataUrl: c.ModelDataUrl,
		})
	}
	return out
}

func (s *InferenceSpecification) equal(o *InferenceSpecification) bool {
	if s == nil || o == nil {
		return s == o
	}
	if !slices.Equal(s.SupportedContentTypes, o.SupportedContentTypes) ||
		!slices.Equal(s.SupportedResponseMIMETypes, o.SupportedResponseMIMETypes) {
		return false
	}
	return slices.EqualFunc(s.Containers, o.Containers, func(a, b Container) bool {
		return aws.ToString(a.Image) == aws.ToString(b.Image) && aws.ToString(a.ModelDataUrl) == aws.ToString(b.ModelDataUrl)
	})
}

func validApproval(status *string) error {
	if status == nil || slices.Contains(approvalStatuses, *status) {
		return nil
	}
	return fmt.Errorf("ModelApprovalStatus must be one of %s", strings.Join(approvalStatuses, ", "))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
