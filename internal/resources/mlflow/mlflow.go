// Package mlflow manages AWS::SageMaker::MlflowTrackingServer resources.
package mlflow

import (
	"context"
	"errors"
	"slices"

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
const TypeName = "AWS::SageMaker::MlflowTrackingServer"

// Model is a managed MLflow tracking server.
type Model struct {
	TrackingServerName           *string        `json:"TrackingServerName,omitempty"`
	TrackingServerArn            *string        `json:"TrackingServerArn,omitempty"`
	ArtifactStoreUri             *string        `json:"ArtifactStoreUri,omitempty"`
	RoleArn                      *string        `json:"RoleArn,omitempty"`
	TrackingServerSize           *string        `json:"TrackingServerSize,omitempty"`
	MlflowVersion                *string        `json:"MlflowVersion,omitempty"`
	AutomaticModelRegistration   *bool          `json:"AutomaticModelRegistration,omitempty"`
	WeeklyMaintenanceWindowStart *string        `json:"WeeklyMaintenanceWindowStart,omitempty"`
	TrackingServerUrl            *string        `json:"TrackingServerUrl,omitempty"`
	TrackingServerStatus         *string        `json:"TrackingServerStatus,omitempty"`
	Tags                         []resource.Tag `json:"Tags,omitempty"`
}

// API is the subset of the SageMaker client used for tracking servers.
type API interface {
	CreateMlflowTrackingServer(ctx context.Context, in *sagemaker.CreateMlflowTrackingServerInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateMlflowTrackingServerOutput, error)
	DescribeMlflowTrackingServer(ctx context.Context, in *sagemaker.DescribeMlflowTrackingServerInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeMlflowTrackingServerOutput, error)
	UpdateMlflowTrackingServer(ctx context.Context, in *sagemaker.UpdateMlflowTrackingServerInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdateMlflowTrackingServerOutput, error)
	DeleteMlflowTrackingServer(ctx context.Context, in *sagemaker.DeleteMlflowTrackingServerInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeleteMlflowTrackingServerOutput, error)
	ListMlflowTrackingServers(ctx context.Context, in *sagemaker.ListMlflowTrackingServersInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListMlflowTrackingServersOutput, error)
}

// Statuses maps tracking server statuses to phases per operation. A server
// under maintenance is treated as still updating.
var Statuses = resource.StatusTable{
	resource.OperationCreate: {
		Success: []string{"Created"},
		Failure: []string{"CreateFailed"},
		Pending: []string{"Creating"},
	},
	resource.OperationUpdate: {
		Success: []string{"Updated", "Created", "Started", "MaintenanceComplete"},
		Failure: []string{"UpdateFailed", "MaintenanceFailed"},
		Pending: []string{"Updating", "MaintenanceInProgress", "Starting"},
	},
	resource.OperationDelete: {
		Failure: []string{"DeleteFailed"},
		Pending: []string{"Deleting"},
	},
}

var sizes = []string{"Small", "Medium", "Large"}

// New returns the tracking server adapter. tags may be nil.
func New(api API, tags engine.TagAPI) *engine.Adapter[*Model] {
	a := &engine.Adapter[*Model]{
		TypeName:       TypeName,
		Identify:       func(m *Model) string { return aws.ToString(name(m)) },
		Statuses:       Statuses,
		PrecheckCreate: true,
		ValidateCreate: func(m *Model) error {
			return utilerrors.NewAggregate([]error{
				resource.Required("TrackingServerName", m.TrackingServerName),
				resource.Required("ArtifactStoreUri", m.ArtifactStoreUri),
				resource.Required("RoleArn", m.RoleArn),
				resource.ReadOnly("TrackingServerArn", m.TrackingServerArn),
				resource.ReadOnly("TrackingServerUrl", m.TrackingServerUrl),
				validSize(m.TrackingServerSize),
			})
		},
		Merge: func(current, desired *Model) *Model {
			m := *desired
			m.TrackingServerName = resource.Inherit(current.TrackingServerName, desired.TrackingServerName)
			m.TrackingServerArn = resource.Inherit(current.TrackingServerArn, desired.TrackingServerArn)
			m.TrackingServerUrl = current.TrackingServerUrl
			m.ArtifactStoreUri = resource.Inherit(current.ArtifactStoreUri, desired.ArtifactStoreUri)
			m.RoleArn = resource.Inherit(current.RoleArn, desired.RoleArn)
			m.TrackingServerSize = resource.Inherit(current.TrackingServerSize, desired.TrackingServerSize)
			m.MlflowVersion = resource.Inherit(current.MlflowVersion, desired.MlflowVersion)
			m.AutomaticModelRegistration = resource.Inherit(current.AutomaticModelRegistration, desired.AutomaticModelRegistration)
			m.WeeklyMaintenanceWindowStart = resource.Inherit(current.WeeklyMaintenanceWindowStart, desired.WeeklyMaintenanceWindowStart)
			return &m
		},
		ValidateUpdate: func(current, desired *Model) error {
			return utilerrors.NewAggregate([]error{
				resource.Immutable("RoleArn", current.RoleArn, desired.RoleArn),
				resource.Immutable("MlflowVersion", current.MlflowVersion, desired.MlflowVersion),
				validSize(desired.TrackingServerSize),
			})
		},
		Create: engine.Bind(
			func(m *Model) (*sagemaker.CreateMlflowTrackingServerInput, error) {
				return &sagemaker.CreateMlflowTrackingServerInput{
					TrackingServerName:           m.TrackingServerName,
					ArtifactStoreUri:             m.ArtifactStoreUri,
					RoleArn:                      m.RoleArn,
					TrackingServerSize:           types.TrackingServerSize(aws.ToString(m.TrackingServerSize)),
					MlflowVersion:                m.MlflowVersion,
					AutomaticModelRegistration:   m.AutomaticModelRegistration,
					WeeklyMaintenanceWindowStart: m.WeeklyMaintenanceWindowStart,
					Tags:                         smplatform.CreateTags(m.Tags),
				}, nil
			},
			smplatform.Invoke(api.CreateMlflowTrackingServer),
			func(m *Model, out *sagemaker.CreateMlflowTrackingServerOutput) *Model {
				created := *m
				created.TrackingServerArn = out.TrackingServerArn
				return &created
			},
		),
		Update: engine.Bind(
			func(m *Model) (*sagemaker.UpdateMlflowTrackingServerInput, error) {
				return &sagemaker.UpdateMlflowTrackingServerInput{
					TrackingServerName:           m.TrackingServerName,
					ArtifactStoreUri:             m.ArtifactStoreUri,
					TrackingServerSize:           types.TrackingServerSize(aws.ToString(m.TrackingServerSize)),
					AutomaticModelRegistration:   m.AutomaticModelRegistration,
					WeeklyMaintenanceWindowStart: m.WeeklyMaintenanceWindowStart,
				}, nil
			},
			smplatform.Invoke(api.UpdateMlflowTrackingServer),
			nil,
		),
		Delete: engine.Bind(
			func(m *Model) (*sagemaker.DeleteMlflowTrackingServerInput, error) {
				return &sagemaker.DeleteMlflowTrackingServerInput{TrackingServerName: name(m)}, nil
			},
			smplatform.Invoke(api.DeleteMlflowTrackingServer),
			nil,
		),
		Describe: func(ctx context.Context, m *Model) (stabilize.Observation[*Model], error) {
			if name(m) == nil {
				return stabilize.Observation[*Model]{}, errkind.Invalid("TrackingServerName is required")
			}
			out, err := api.DescribeMlflowTrackingServer(ctx, &sagemaker.DescribeMlflowTrackingServerInput{TrackingServerName: name(m)})
			if err != nil {
				return stabilize.Observation[*Model]{}, smplatform.MissingAsNotFound(err, TypeName, aws.ToString(name(m)))
			}
			return stabilize.Observation[*Model]{
				Model: &Model{
					TrackingServerName:           out.TrackingServerName,
					TrackingServerArn:            out.TrackingServerArn,
					ArtifactStoreUri:             out.ArtifactStoreUri,
					RoleArn:                      out.RoleArn,
					TrackingServerSize:           optional(string(out.TrackingServerSize)),
					MlflowVersion:                out.MlflowVersion,
					AutomaticModelRegistration:   out.AutomaticModelRegistration,
					WeeklyMaintenanceWindowStart: out.WeeklyMaintenanceWindowStart,
					TrackingServerUrl:            out.TrackingServerUrl,
					TrackingServerStatus:         optional(string(out.TrackingServerStatus)),
				},
				Status: string(out.TrackingServerStatus),
			}, nil
		},
		List: func(ctx context.Context, _ *Model, token string) ([]*Model, string, error) {
			in := &sagemaker.ListMlflowTrackingServersInput{}
			if token != "" {
				in.NextToken = aws.String(token)
			}
			out, err := api.ListMlflowTrackingServers(ctx, in)
			if err != nil {
				return nil, "", err
			}
			models := make([]*Model, 0, len(out.TrackingServerSummaries))
			for _, s := range out.TrackingServerSummaries {
				models = append(models, &Model{
					TrackingServerName:   s.TrackingServerName,
					TrackingServerArn:    s.TrackingServerArn,
					MlflowVersion:        s.MlflowVersion,
					TrackingServerStatus: optional(string(s.TrackingServerStatus)),
				})
			}
			return models, aws.ToString(out.NextToken), nil
		},
	}

	if tags != nil {
		a.Tags = &engine.TagSupport[*Model]{
			API:     tags,
			Target:  func(m *Model) string { return aws.ToString(m.TrackingServerArn) },
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
	if m.TrackingServerName != nil {
		return m.TrackingServerName
	}
	if m.TrackingServerArn != nil {
		return aws.String(smplatform.ResourceID(*m.TrackingServerArn))
	}
	return nil
}

func validSize(size *string) error {
	if size == nil {
		return nil
	}
	if slices.Contains(sizes, *size) {
		return nil
	}
	return errors.New("TrackingServerSize must be one of Small, Medium, Large")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
