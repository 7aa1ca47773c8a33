package testing

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/stretchr/testify/mock"
)

// MockSageMakerAPI is a mock of the SageMaker client methods used by the
// resource adapters. Expectations are set per method name, for example
//
//	api.On("DescribeDomain", mock.Anything, mock.Anything).Return(out, nil)
type MockSageMakerAPI struct {
	mock.Mock
}

func called[T any](ctx context.Context, m *mock.Mock, method string, in any) (*T, error) {
	args := m.MethodCalled(method, ctx, in)
	out, _ := args.Get(0).(*T)
	return out, args.Error(1)
}

// Domain operations.

func (m *MockSageMakerAPI) CreateDomain(ctx context.Context, in *sagemaker.CreateDomainInput, _ ...func(*sagemaker.Options)) (*sagemaker.CreateDomainOutput, error) {
	return called[sagemaker.CreateDomainOutput](ctx, &m.Mock, "CreateDomain", in)
}

func (m *MockSageMakerAPI) DescribeDomain(ctx context.Context, in *sagemaker.DescribeDomainInput, _ ...func(*sagemaker.Options)) (*sagemaker.DescribeDomainOutput, error) {
	return called[sagemaker.DescribeDomainOutput](ctx, &m.Mock, "DescribeDomain", in)
}

func (m *MockSageMakerAPI) UpdateDomain(ctx context.Context, in *sagemaker.UpdateDomainInput, _ ...func(*sagemaker.Options)) (*sagemaker.UpdateDomainOutput, error) {
	return called[sagemaker.UpdateDomainOutput](ctx, &m.Mock, "UpdateDomain", in)
}

func (m *MockSageMakerAPI) DeleteDomain(ctx context.Context, in *sagemaker.DeleteDomainInput, _ ...func(*sagemaker.Options)) (*sagemaker.DeleteDomainOutput, error) {
	return called[sagemaker.DeleteDomainOutput](ctx, &m.Mock, "DeleteDomain", in)
}

func (m *MockSageMakerAPI) ListDomains(ctx context.Context, in *sagemaker.ListDomainsInput, _ ...func(*sagemaker.Options)) (*sagemaker.ListDomainsOutput, error) {
	return called[sagemaker.ListDomainsOutput](ctx, &m.Mock, "ListDomains", in)
}

// UserProfile operations.

func (m *MockSageMakerAPI) CreateUserProfile(ctx context.Context, in *sagemaker.CreateUserProfileInput, _ ...func(*sagemaker.Options)) (*sagemaker.CreateUserProfileOutput, error) {
	return called[sagemaker.CreateUserProfileOutput](ctx, &m.Mock, "CreateUserProfile", in)
}

func (m *MockSageMakerAPI) DescribeUserProfile(ctx context.Context, in *sagemaker.DescribeUserProfileInput, _ ...func(*sagemaker.Options)) (*sagemaker.DescribeUserProfileOutput, error) {
	return called[sagemaker.DescribeUserProfileOutput](ctx, &m.Mock, "DescribeUserProfile", in)
}

func (m *MockSageMakerAPI) UpdateUserProfile(ctx context.Context, in *sagemaker.UpdateUserProfileInput, _ ...func(*sagemaker.Options)) (*sagemaker.UpdateUserProfileOutput, error) {
	return called[sagemaker.UpdateUserProfileOutput](ctx, &m.Mock, "UpdateUserProfile", in)
}

func (m *MockSageMakerAPI) DeleteUserProfile(ctx context.Context, in *sagemaker.DeleteUserProfileInput, _ ...func(*sagemaker.Options)) (*sagemaker.DeleteUserProfileOutput, error) {
	return called[sagemaker.DeleteUserProfileOutput](ctx, &m.Mock, "DeleteUserProfile", in)
}

func (m *MockSageMakerAPI) ListUserProfiles(ctx context.Context, in *sagemaker.ListUserProfilesInput, _ ...func(*sagemaker.Options)) (*sagemaker.ListUserProfilesOutput, error) {
	return called[sagemaker.ListUserProfilesOutput](ctx, &m.Mock, "ListUserProfiles", in)
}

// Pipeline operations.

func (m *MockSageMakerAPI) CreatePipeline(ctx context.Context, in *sagemaker.CreatePipelineInput, _ ...func(*sagemaker.Options)) (*sagemaker.CreatePipelineOutput, error) {
	return called[sagemaker.CreatePipelineOutput](ctx, &m.Mock, "CreatePipeline", in)
}

func (m *MockSageMakerAPI) DescribePipeline(ctx context.Context, in *sagemaker.DescribePipelineInput, _ ...func(*sagemaker.Options)) (*sagemaker.DescribePipelineOutput, error) {
	return called[sagemaker.DescribePipelineOutput](ctx, &m.Mock, "DescribePipeline", in)
}

func (m *MockSageMakerAPI) UpdatePipeline(ctx context.Context, in *sagemaker.UpdatePipelineInput, _ ...func(*sagemaker.Options)) (*sagemaker.UpdatePipelineOutput, error) {
	return called[sagemaker.UpdatePipelineOutput](ctx, &m.Mock, "UpdatePipeline", in)
}

func (m *MockSageMakerAPI) DeletePipeline(ctx context.Context, in *sagemaker.DeletePipelineInput, _ ...func(*sagemaker.Options)) (*sagemaker.DeletePipelineOutput, error) {
	return called[sagemaker.DeletePipelineOutput](ctx, &m.Mock, "DeletePipeline", in)
}

func (m *MockSageMakerAPI) ListPipelines(ctx context.Context, in *sagemaker.ListPipelinesInput, _ ...func(*sagemaker.Options)) (*sagemaker.ListPipelinesOutput, error) {
	return called[sagemaker.ListPipelinesOutput](ctx, &m.Mock, "ListPipelines", in)
}

// Project operations.

func (m *MockSageMakerAPI) CreateProject(ctx context.Context, in *sagemaker.CreateProjectInput, _ ...func(*sagemaker.Options)) (*sagemaker.CreateProjectOutput, error) {
	return called[sagemaker.CreateProjectOutput](ctx, &m.Mock, "CreateProject", in)
}

func (m *MockSageMakerAPI) DescribeProject(ctx context.Context, in *sagemaker.DescribeProjectInput, _ ...func(*sagemaker.Options)) (*sagemaker.DescribeProjectOutput, error) {
	return called[sagemaker.DescribeProjectOutput](ctx, &m.Mock, "DescribeProject", in)
}

func (m *MockSageMakerAPI) UpdateProject(ctx context.Context, in *sagemaker.UpdateProjectInput, _ ...func(*sagemaker.Options)) (*sagemaker.UpdateProjectOutput, error) {
	return called[sagemaker.UpdateProjectOutput](ctx, &m.Mock, "UpdateProject", in)
}

func (m *MockSageMakerAPI) DeleteProject(ctx context.Context, in *sagemaker.DeleteProjectInput, _ ...func(*sagemaker.Options)) (*sagemaker.DeleteProjectOutput, error) {
	return called[sagemaker.DeleteProjectOutput](ctx, &m.Mock, "DeleteProject", in)
}

func (m *MockSageMakerAPI) ListProjects(ctx context.Context, in *sagemaker.ListProjectsInput, _ ...func(*sagemaker.Options)) (*sagemaker.ListProjectsOutput, error) {
	return called[sagemaker.ListProjectsOutput](ctx, &m.Mock, "ListProjects", in)
}

// ModelPackage operations.

func (m *MockSageMakerAPI) CreateModelPackage(ctx context.Context, in *sagemaker.CreateModelPackageInput, _ ...func(*sagemaker.Options)) (*sagemaker.CreateModelPackageOutput, error) {
	return called[sagemaker.CreateModelPackageOutput](ctx, &m.Mock, "CreateModelPackage", in)
}

func (m *MockSageMakerAPI) DescribeModelPackage(ctx context.Context, in *sagemaker.DescribeModelPackageInput, _ ...func(*sagemaker.Options)) (*sagemaker.DescribeModelPackageOutput, error) {
	return called[sagemaker.DescribeModelPackageOutput](ctx, &m.Mock, "DescribeModelPackage", in)
}

func (m *MockSageMakerAPI) UpdateModelPackage(ctx context.Context, in *sagemaker.UpdateModelPackageInput, _ ...func(*sagemaker.Options)) (*sagemaker.UpdateModelPackageOutput, error) {
	return called[sagemaker.UpdateModelPackageOutput](ctx, &m.Mock, "UpdateModelPackage", in)
}

func (m *MockSageMakerAPI) DeleteModelPackage(ctx context.Context, in *sagemaker.DeleteModelPackageInput, _ ...func(*sagemaker.Options)) (*sagemaker.DeleteModelPackageOutput, error) {
	return called[sagemaker.DeleteModelPackageOutput](ctx, &m.Mock, "DeleteModelPackage", in)
}

func (m *MockSageMakerAPI) ListModelPackages(ctx context.Context, in *sagemaker.ListModelPackagesInput, _ ...func(*sagemaker.Options)) (*sagemaker.ListModelPackagesOutput, error) {
	return called[sagemaker.ListModelPackagesOutput](ctx, &m.Mock, "ListModelPackages", in)
}

// MlflowTrackingServer operations.

func (m *MockSageMakerAPI) CreateMlflowTrackingServer(ctx context.Context, in *sagemaker.CreateMlflowTrackingServerInput, _ ...func(*sagemaker.Options)) (*sagemaker.CreateMlflowTrackingServerOutput, error) {
	return called[sagemaker.CreateMlflowTrackingServerOutput](ctx, &m.Mock, "CreateMlflowTrackingServer", in)
}

func (m *MockSageMakerAPI) DescribeMlflowTrackingServer(ctx context.Context, in *sagemaker.DescribeMlflowTrackingServerInput, _ ...func(*sagemaker.Options)) (*sagemaker.DescribeMlflowTrackingServerOutput, error) {
	return called[sagemaker.DescribeMlflowTrackingServerOutput](ctx, &m.Mock, "DescribeMlflowTrackingServer", in)
}

func (m *MockSageMakerAPI) UpdateMlflowTrackingServer(ctx context.Context, in *sagemaker.UpdateMlflowTrackingServerInput, _ ...func(*sagemaker.Options)) (*sagemaker.UpdateMlflowTrackingServerOutput, error) {
	return called[sagemaker.UpdateMlflowTrackingServerOutput](ctx, &m.Mock, "UpdateMlflowTrackingServer", in)
}

func (m *MockSageMakerAPI) DeleteMlflowTrackingServer(ctx context.Context, in *sagemaker.DeleteMlflowTrackingServerInput, _ ...func(*sagemaker.Options)) (*sagemaker.DeleteMlflowTrackingServerOutput, error) {
	return called[sagemaker.DeleteMlflowTrackingServerOutput](ctx, &m.Mock, "DeleteMlflowTrackingServer", in)
}

func (m *MockSageMakerAPI) ListMlflowTrackingServers(ctx context.Context, in *sagemaker.ListMlflowTrackingServersInput, _ ...func(*sagemaker.Options)) (*sagemaker.ListMlflowTrackingServersOutput, error) {
	return called[sagemaker.ListMlflowTrackingServersOutput](ctx, &m.Mock, "ListMlflowTrackingServers", in)
}

// Tagging operations.

func (m *MockSageMakerAPI) ListTags(ctx context.Context, in *sagemaker.ListTagsInput, _ ...func(*sagemaker.Options)) (*sagemaker.ListTagsOutput, error) {
	return called[sagemaker.ListTagsOutput](ctx, &m.Mock, "ListTags", in)
}

func (m *MockSageMakerAPI) AddTags(ctx context.Context, in *sagemaker.AddTagsInput, _ ...func(*sagemaker.Options)) (*sagemaker.AddTagsOutput, error) {
	return called[sagemaker.AddTagsOutput](ctx, &m.Mock, "AddTags", in)
}

func (m *MockSageMakerAPI) DeleteTags(ctx context.Context, in *sagemaker.DeleteTagsInput, _ ...func(*sagemaker.Options)) (*sagemaker.DeleteTagsOutput, error) {
	return called[sagemaker.DeleteTagsOutput](ctx, &m.Mock, "DeleteTags", in)
}
