package project

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/sagerec/internal/engine"
	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
	testutil "github.com/imamik/sagerec/internal/testing"
)

const projectArn = "arn:aws:sagemaker:eu-west-1:123456789012:project/mlops"

func handle(t *testing.T, api *testutil.MockSageMakerAPI, req engine.Request[*Model]) engine.Result[*Model] {
	t.Helper()
	e, err := engine.New(New(api, nil), engine.WithClock(testutil.NewClock(testutil.Epoch).Now))
	require.NoError(t, err)
	return e.Handle(context.Background(), req)
}

func mlops() *Model {
	return &Model{
		ProjectName: aws.String("mlops"),
		ServiceCatalogProvisioningDetails: &ProvisioningDetails{
			ProductId:              aws.String("prod-1"),
			ProvisioningArtifactId: aws.String("pa-1"),
			ProvisioningParameters: []Parameter{{Key: aws.String("Stage"), Value: aws.String("dev")}},
		},
	}
}

func described(status string) *sagemaker.DescribeProjectOutput {
	return &sagemaker.DescribeProjectOutput{
		ProjectName:   aws.String("mlops"),
		ProjectArn:    aws.String(projectArn),
		ProjectId:     aws.String("p-123"),
		ProjectStatus: types.ProjectStatus(status),
		ServiceCatalogProvisioningDetails: &types.ServiceCatalogProvisioningDetails{
			ProductId:              aws.String("prod-1"),
			ProvisioningArtifactId: aws.String("pa-1"),
		},
	}
}

func TestCreate_StabilizesAcrossCalls(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeProject", mock.Anything, mock.Anything).
		Return(nil, testutil.APIError("ValidationException", "Project mlops does not exist")).Once()
	api.On("CreateProject", mock.Anything, mock.MatchedBy(func(in *sagemaker.CreateProjectInput) bool {
		d := in.ServiceCatalogProvisioningDetails
		return aws.ToString(in.ProjectName) == "mlops" && d != nil &&
			aws.ToString(d.ProductId) == "prod-1" && len(d.ProvisioningParameters) == 1
	})).Return(&sagemaker.CreateProjectOutput{ProjectArn: aws.String(projectArn), ProjectId: aws.String("p-123")}, nil).Once()
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("CreateInProgress"), nil).Once()
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("CreateCompleted"), nil).Once()

	first := handle(t, api, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: mlops()})
	require.Equal(t, engine.StatusInProgress, first.Status, first.Message())
	assert.Equal(t, "p-123", aws.ToString(first.Model.ProjectId))

	second := handle(t, api, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: first.Model, Progress: first.Progress})
	require.Equal(t, engine.StatusSuccess, second.Status, second.Message())
	assert.Equal(t, "CreateCompleted", aws.ToString(second.Model.ProjectStatus))
	api.AssertNumberOfCalls(t, "CreateProject", 1)
}

func TestCreate_Failed(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeProject", mock.Anything, mock.Anything).
		Return(nil, testutil.APIError("ValidationException", "Project mlops does not exist")).Once()
	api.On("CreateProject", mock.Anything, mock.Anything).
		Return(&sagemaker.CreateProjectOutput{ProjectArn: aws.String(projectArn), ProjectId: aws.String("p-123")}, nil)
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("CreateFailed"), nil)

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: mlops()})
	assert.Equal(t, errkind.NotStabilized, res.Kind)
}

func TestCreate_RequiresProduct(t *testing.T) {
	t.Parallel()

	res := handle(t, &testutil.MockSageMakerAPI{}, engine.Request[*Model]{
		Operation: resource.OperationCreate,
		Desired:   &Model{ProjectName: aws.String("mlops")},
	})
	assert.Equal(t, errkind.InvalidRequest, res.Kind)
	assert.Contains(t, res.Message(), "ServiceCatalogProvisioningDetails.ProductId")
}

func TestUpdate_ProductIsImmutable(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("CreateCompleted"), nil)

	m := mlops()
	m.ServiceCatalogProvisioningDetails.ProductId = aws.String("prod-2")
	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationUpdate, Desired: m})
	assert.Equal(t, errkind.InvalidRequest, res.Kind)
	assert.Contains(t, res.Message(), "ProductId")
	api.AssertNotCalled(t, "UpdateProject", mock.Anything, mock.Anything)
}

func TestUpdate_SendsProvisioningUpdate(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("CreateCompleted"), nil).Once()
	api.On("UpdateProject", mock.Anything, mock.MatchedBy(func(in *sagemaker.UpdateProjectInput) bool {
		u := in.ServiceCatalogProvisioningUpdateDetails
		return u != nil && aws.ToString(u.ProvisioningArtifactId) == "pa-2" && len(u.ProvisioningParameters) == 1
	})).Return(&sagemaker.UpdateProjectOutput{ProjectArn: aws.String(projectArn)}, nil).Once()
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("UpdateCompleted"), nil)

	m := mlops()
	m.ServiceCatalogProvisioningDetails.ProvisioningArtifactId = aws.String("pa-2")
	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationUpdate, Desired: m})
	require.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	api.AssertExpectations(t)
}

func TestDelete_AlreadyGone(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeProject", mock.Anything, mock.Anything).
		Return(nil, testutil.APIError("ValidationException", "Project mlops does not exist"))

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationDelete, Desired: &Model{ProjectName: aws.String("mlops")}})
	assert.Equal(t, engine.StatusSuccess, res.Status)
	api.AssertNotCalled(t, "DeleteProject", mock.Anything, mock.Anything)
}

func TestDelete_Completed(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("CreateCompleted"), nil).Once()
	api.On("DeleteProject", mock.Anything, &sagemaker.DeleteProjectInput{ProjectName: aws.String("mlops")}).
		Return(&sagemaker.DeleteProjectOutput{}, nil).Once()
	api.On("DescribeProject", mock.Anything, mock.Anything).Return(described("DeleteCompleted"), nil)

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationDelete, Desired: &Model{ProjectName: aws.String("mlops")}})
	assert.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	api.AssertExpectations(t)
}

func TestList(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("ListProjects", mock.Anything, &sagemaker.ListProjectsInput{NextToken: aws.String("t1")}).Return(&sagemaker.ListProjectsOutput{
		ProjectSummaryList: []types.ProjectSummary{{
			ProjectName:   aws.String("mlops"),
			ProjectArn:    aws.String(projectArn),
			ProjectId:     aws.String("p-123"),
			ProjectStatus: types.ProjectStatus("CreateCompleted"),
		}},
	}, nil)

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationList, NextToken: "t1"})
	require.Equal(t, engine.StatusSuccess, res.Status)
	require.Len(t, res.Models, 1)
	assert.Equal(t, "CreateCompleted", aws.ToString(res.Models[0].ProjectStatus))
	assert.Empty(t, res.NextToken)
}
