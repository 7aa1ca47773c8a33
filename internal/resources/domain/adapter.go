package domain

import (
	"context"

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
const TypeName = "AWS::SageMaker::Domain"

// API is the subset of the SageMaker client used for domains.
type API interface {
	CreateDomain(ctx context.Context, in *sagemaker.CreateDomainInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateDomainOutput, error)
	DescribeDomain(ctx context.Context, in *sagemaker.DescribeDomainInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeDomainOutput, error)
	UpdateDomain(ctx context.Context, in *sagemaker.UpdateDomainInput, optFns ...func(*sagemaker.Options)) (*sagemaker.UpdateDomainOutput, error)
	DeleteDomain(ctx context.Context, in *sagemaker.DeleteDomainInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DeleteDomainOutput, error)
	ListDomains(ctx context.Context, in *sagemaker.ListDomainsInput, optFns ...func(*sagemaker.Options)) (*sagemaker.ListDomainsOutput, error)
}

// Statuses maps domain statuses to phases per operation.
var Statuses = resource.StatusTable{
	resource.OperationCreate: {
		Success: []string{"InService"},
		Failure: []string{"Failed", "Delete_Failed"},
		Pending: []string{"Pending"},
	},
	resource.OperationUpdate: {
		Success: []string{"InService"},
		Failure: []string{"Update_Failed", "Failed"},
		Pending: []string{"Updating", "Pending"},
	},
	resource.OperationDelete: {
		Failure: []string{"Delete_Failed", "Failed"},
		Pending: []string{"Deleting"},
	},
}

// New returns the domain adapter. tags may be nil to disable tag handling.
func New(api API, tags engine.TagAPI) *engine.Adapter[*Model] {
	a := &engine.Adapter[*Model]{
		TypeName:       TypeName,
		Identify:       identify,
		Statuses:       Statuses,
		ValidateCreate: validateCreate,
		Merge:          merge,
		ValidateUpdate: validateUpdate,
		Create:         engine.Bind(createInput, smplatform.Invoke(api.CreateDomain), absorbCreate),
		Update:         engine.Bind(updateInput, smplatform.Invoke(api.UpdateDomain), nil),
		Delete:         engine.Bind(deleteInput, smplatform.Invoke(api.DeleteDomain), nil),
		Describe: func(ctx context.Context, m *Model) (stabilize.Observation[*Model], error) {
			if m == nil || m.DomainId == nil {
				return stabilize.Observation[*Model]{}, errkind.Invalid("DomainId is required")
			}
			out, err := api.DescribeDomain(ctx, &sagemaker.DescribeDomainInput{DomainId: m.DomainId})
			if err != nil {
				return stabilize.Observation[*Model]{}, err
			}
			return stabilize.Observation[*Model]{Model: fromDescribe(out, m), Status: string(out.Status)}, nil
		},
		List: func(ctx context.Context, _ *Model, token string) ([]*Model, string, error) {
			in := &sagemaker.ListDomainsInput{}
			if token != "" {
				in.NextToken = aws.String(token)
			}
			out, err := api.ListDomains(ctx, in)
			if err != nil {
				return nil, "", err
			}
			models := make([]*Model, 0, len(out.Domains))
			for _, d := range out.Domains {
				models = append(models, &Model{
					DomainId:   d.DomainId,
					DomainArn:  d.DomainArn,
					DomainName: d.DomainName,
					Url:        d.Url,
					Status:     optional(string(d.Status)),
				})
			}
			return models, aws.ToString(out.NextToken), nil
		},
	}

	if tags != nil {
		a.Tags = &engine.TagSupport[*Model]{
			API:     tags,
			Target:  func(m *Model) string { return aws.ToString(m.DomainArn) },
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
	if m.DomainId != nil {
		return *m.DomainId
	}
	return aws.ToString(m.DomainName)
}

func validateCreate(m *Model) error {
	errs := []error{
		resource.ReadOnly("DomainId", m.DomainId),
		resource.ReadOnly("DomainArn", m.DomainArn),
		resource.Required("DomainName", m.DomainName),
		resource.Required("AuthMode", m.AuthMode),
		resource.Required("VpcId", m.VpcId),
	}
	if m.DefaultUserSettings == nil {
		errs = append(errs, errRequired("DefaultUserSettings"))
	} else {
		errs = append(errs, resource.Required("DefaultUserSettings.ExecutionRole", m.DefaultUserSettings.ExecutionRole))
	}
	if len(m.SubnetIds) == 0 {
		errs = append(errs, errRequired("SubnetIds"))
	}
	return utilerrors.NewAggregate(errs)
}

func errRequired(field string) error {
	return resource.Required(field, nil)
}

func merge(current, desired *Model) *Model {
	m := *desired
	m.DomainId = resource.Inherit(current.DomainId, desired.DomainId)
	m.DomainArn = resource.Inherit(current.DomainArn, desired.DomainArn)
	m.DomainName = resource.Inherit(current.DomainName, desired.DomainName)
	m.AuthMode = resource.Inherit(current.AuthMode, desired.AuthMode)
	m.DefaultUserSettings = resource.Inherit(current.DefaultUserSettings, desired.DefaultUserSettings)
	m.VpcId = resource.Inherit(current.VpcId, desired.VpcId)
	m.KmsKeyId = resource.Inherit(current.KmsKeyId, desired.KmsKeyId)
	m.AppNetworkAccessType = resource.Inherit(current.AppNetworkAccessType, desired.AppNetworkAccessType)
	if m.SubnetIds == nil {
		m.SubnetIds = current.SubnetIds
	}
	return &m
}

func validateUpdate(current, desired *Model) error {
	return utilerrors.NewAggregate([]error{
		resource.Immutable("DomainName", current.DomainName, desired.DomainName),
		resource.Immutable("AuthMode", current.AuthMode, desired.AuthMode),
		resource.Immutable("VpcId", current.VpcId, desired.VpcId),
		resource.Immutable("KmsKeyId", current.KmsKeyId, desired.KmsKeyId),
		resource.ImmutableList("SubnetIds", current.SubnetIds, desired.SubnetIds),
	})
}

func createInput(m *Model) (*sagemaker.CreateDomainInput, error) {
	return &sagemaker.CreateDomainInput{
		DomainName:           m.DomainName,
		AuthMode:             types.AuthMode(aws.ToString(m.AuthMode)),
		DefaultUserSettings:  m.DefaultUserSettings.ToSDK(),
		SubnetIds:            m.SubnetIds,
		VpcId:                m.VpcId,
		KmsKeyId:             m.KmsKeyId,
		AppNetworkAccessType: types.AppNetworkAccessType(aws.ToString(m.AppNetworkAccessType)),
		Tags:                 smplatform.CreateTags(m.Tags),
	}, nil
}

func absorbCreate(m *Model, out *sagemaker.CreateDomainOutput) *Model {
	created := *m
	created.DomainArn = out.DomainArn
	created.Url = out.Url
	if id := smplatform.ResourceID(aws.ToString(out.DomainArn)); id != "" {
		created.DomainId = aws.String(id)
	}
	return &created
}

func updateInput(m *Model) (*sagemaker.UpdateDomainInput, error) {
	if m.DomainId == nil {
		return nil, errkind.Invalid("DomainId is required")
	}
	return &sagemaker.UpdateDomainInput{
		DomainId:             m.DomainId,
		DefaultUserSettings:  m.DefaultUserSettings.ToSDK(),
		AppNetworkAccessType: types.AppNetworkAccessType(aws.ToString(m.AppNetworkAccessType)),
	}, nil
}

func deleteInput(m *Model) (*sagemaker.DeleteDomainInput, error) {
	if m.DomainId == nil {
		return nil, errkind.Invalid("DomainId is required")
	}
	in := &sagemaker.DeleteDomainInput{DomainId: m.DomainId}
	if m.HomeEfsRetention != nil {
		in.RetentionPolicy = &types.RetentionPolicy{HomeEfsFileSystem: types.RetentionType(*m.HomeEfsRetention)}
	}
	return in, nil
}
