// Package userprofile manages AWS::SageMaker::UserProfile resources.
package userprofile

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/errkind"
	smplatform "github.com/imamik/sagerec/internal/platform/sagemaker"
	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/resources/domain"
	"github.com/imamik/sagerec/internal/stabilize"
)

// TypeName is the resource type handled by this package.
const TypeName = "AWS::SageMaker::UserProfile"

// Model is a user profile inside a domain. DomainId and UserProfileName
// together identify it.
type Model struct {
	DomainId                   *string              `json:"DomainId,omitempty"`
	UserProfileName            *string              `json:"UserProfileName,omitempty"`
	UserProfileArn             *string              `json:"UserProfileArn,omitempty"`
	SingleSignOnUserIdentifier *string              `json:"SingleSignOnUserIdentifier,omitempty"`
	SingleSignOnUserValue      *string              `json:"SingleSignOnUserValue,omitempty"`
	UserSettings               *domain.UserSettings `json:"UserSettings,omitempty"`
	Status                     *string              `json:"Status,omitempty"`
	Tags                       []resource.Tag       `json:"Tags,omitempty"`
}

// API is the subset of the SageMaker client used for user profiles.
type API interface {
	CreateUserProfile(ctx context.Context, in *sagemaker.CreateUserProfileInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateUserProfileOutput, error)
	DescribeUserProfile(ctx context.Context, in *sagemaker.DescribeUserProfileInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeUserProfileOutput, error)
	UpdateUserProfile(ctx context.Context, in *sagemaker.UpdateUserProfileInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdateUserProfileOutput, error)
	DeleteUserProfile(ctx context.Context, in *sagemaker.DeleteUserProfileInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeleteUserProfileOutput, error)
	ListUserProfiles(ctx context.Context, in *sagemaker.ListUserProfilesInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListUserProfilesOutput, error)
}

// Statuses share the domain status vocabulary.
var Statuses = domain.Statuses

// New returns the user profile adapter. tags may be nil.
func New(api API, tags engine.TagAPI) *engine.Adapter[*Model] {
	a := &engine.Adapter[*Model]{
		TypeName: TypeName,
		Identify: identify,
		Statuses: Statuses,
		ValidateCreate: func(m *Model) error {
			return utilerrors.NewAggregate([]error{
				resource.Required("DomainId", m.DomainId),
				resource.Required("UserProfileName", m.UserProfileName),
				resource.ReadOnly("UserProfileArn", m.UserProfileArn),
			})
		},
		Merge: func(current, desired *Model) *Model {
			m := *desired
			m.UserProfileArn = resource.Inherit(current.UserProfileArn, desired.UserProfileArn)
			m.SingleSignOnUserIdentifier = resource.Inherit(current.SingleSignOnUserIdentifier, desired.SingleSignOnUserIdentifier)
			m.SingleSignOnUserValue = resource.Inherit(current.SingleSignOnUserValue, desired.SingleSignOnUserValue)
			m.UserSettings = resource.Inherit(current.UserSettings, desired.UserSettings)
			return &m
		},
		ValidateUpdate: func(current, desired *Model) error {
			return utilerrors.NewAggregate([]error{
				resource.Immutable("SingleSignOnUserIdentifier", current.SingleSignOnUserIdentifier, desired.SingleSignOnUserIdentifier),
				resource.Immutable("SingleSignOnUserValue", current.SingleSignOnUserValue, desired.SingleSignOnUserValue),
			})
		},
		Create: engine.Bind(
			func(m *Model) (*sagemaker.CreateUserProfileInput, error) {
				return &sagemaker.CreateUserProfileInput{
					DomainId:                   m.DomainId,
					UserProfileName:            m.UserProfileName,
					SingleSignOnUserIdentifier: m.SingleSignOnUserIdentifier,
					SingleSignOnUserValue:      m.SingleSignOnUserValue,
					UserSettings:               m.UserSettings.ToSDK(),
					Tags:                       smplatform.CreateTags(m.Tags),
				}, nil
			},
			smplatform.Invoke(api.CreateUserProfile),
			func(m *Model, out *sagemaker.CreateUserProfileOutput) *Model {
				created := *m
				created.UserProfileArn = out.UserProfileArn
				return &created
			},
		),
		Update: engine.Bind(
			func(m *Model) (*sagemaker.UpdateUserProfileInput, error) {
				if err := requireKey(m); err != nil {
					return nil, err
				}
				return &sagemaker.UpdateUserProfileInput{
					DomainId:        m.DomainId,
					UserProfileName: m.UserProfileName,
					UserSettings:    m.UserSettings.ToSDK(),
				}, nil
			},
			smplatform.Invoke(api.UpdateUserProfile),
			nil,
		),
		Delete: engine.Bind(
			func(m *Model) (*sagemaker.DeleteUserProfileInput, error) {
				if err := requireKey(m); err != nil {
					return nil, err
				}
				return &sagemaker.DeleteUserProfileInput{DomainId: m.DomainId, UserProfileName: m.UserProfileName}, nil
			},
			smplatform.Invoke(api.DeleteUserProfile),
			nil,
		),
		Describe: func(ctx context.Context, m *Model) (stabilize.Observation[*Model], error) {
			if err := requireKey(m); err != nil {
				return stabilize.Observation[*Model]{}, err
			}
			out, err := api.DescribeUserProfile(ctx, &sagemaker.DescribeUserProfileInput{
				DomainId:        m.DomainId,
				UserProfileName: m.UserProfileName,
			})
			if err != nil {
				return stabilize.Observation[*Model]{}, err
			}
			return stabilize.Observation[*Model]{
				Model: &Model{
					DomainId:                   out.DomainId,
					UserProfileName:            out.UserProfileName,
					UserProfileArn:             out.UserProfileArn,
					SingleSignOnUserIdentifier: out.SingleSignOnUserIdentifier,
					SingleSignOnUserValue:      out.SingleSignOnUserValue,
					UserSettings:               domain.UserSettingsFromSDK(out.UserSettings),
					Status:                     aws.String(string(out.Status)),
				},
				Status: string(out.Status),
			}, nil
		},
		List: func(ctx context.Context, scope *Model, token string) ([]*Model, string, error) {
			in := &sagemaker.ListUserProfilesInput{}
			if scope != nil {
				in.DomainIdEquals = scope.DomainId
			}
			if token != "" {
				in.NextToken = aws.String(token)
			}
			out, err := api.ListUserProfiles(ctx, in)
			if err != nil {
				return nil, "", err
			}
			models := make([]*Model, 0, len(out.UserProfiles))
			for _, p := range out.UserProfiles {
				models = append(models, &Model{
					DomainId:        p.DomainId,
					UserProfileName: p.UserProfileName,
					Status:          aws.String(string(p.Status)),
				})
			}
			return models, aws.ToString(out.NextToken), nil
		},
	}

	if tags != nil {
		a.Tags = &engine.TagSupport[*Model]{
			API:     tags,
			Target:  func(m *Model) string { return aws.ToString(m.UserProfileArn) },
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

func identify(m *Model) string {
	if m == nil {
		return ""
	}
	return aws.ToString(m.DomainId) + "/" + aws.ToString(m.UserProfileName)
}

func requireKey(m *Model) error {
	if m == nil || m.DomainId == nil || m.UserProfileName == nil {
		return errkind.Invalid("DomainId and UserProfileName are required")
	}
	return nil
}
