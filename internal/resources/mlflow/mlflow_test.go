package mlflow

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
	smplatform "github.com/imamik/sagerec/internal/platform/sagemaker"
	"github.com/imamik/sagerec/internal/resource"
	testutil "github.com/imamik/sagerec/internal/testing"
)

const (
	serverArn = "arn:aws:sagemaker:eu-west-1:123456789012:mlflow-tracking-server/experiments"
	roleArn   = "arn:aws:iam::123456789012:role/mlflow"
)

func handle(t *testing.T, api *testutil.MockSageMakerAPI, req engine.Request[*Model]) engine.Result[*Model] {
	t.Helper()
	e, err := engine.New(New(api, smplatform.NewTagger(api)), engine.WithClock(testutil.NewClock(testutil.Epoch).Now))
	require.NoError(t, err)
	return e.Handle(context.Background(), req)
}

func described(status string) *sagemaker.DescribeMlflowTrackingServerOutput {
	return &sagemaker.DescribeMlflowTrackingServerOutput{
		TrackingServerName:   aws.String("experiments"),
		TrackingServerArn:    aws.String(serverArn),
		ArtifactStoreUri:     aws.String("s3://mlflow-artifacts"),
		RoleArn:              aws.String(roleArn),
		TrackingServerSize:   types.TrackingServerSize("Small"),
		MlflowVersion:        aws.String("2.16"),
		TrackingServerUrl:    aws.String("https://t-abc.eu-west-1.experiments.sagemaker.aws"),
		TrackingServerStatus: types.TrackingServerStatus(status),
	}
}

func experiments() *Model {
	return &Model{
		TrackingServerName: aws.String("experiments"),
		ArtifactStoreUri:   aws.String("s3://mlflow-artifacts"),
		RoleArn:            aws.String(roleArn),
		TrackingServerSize: aws.String("Small"),
		Tags:               []resource.Tag{resource.NewTag("team", "ml")},
	}
}

func TestCreate_AttachesTags(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(nil, testutil.ErrNotFound).Once()
	api.On("CreateMlflowTrackingServer", mock.Anything, mock.MatchedBy(func(in *sagemaker.CreateMlflowTrackingServerInput) bool {
		return aws.ToString(in.TrackingServerName) == "experiments" &&
			in.TrackingServerSize == types.TrackingServerSize("Small") &&
			len(in.Tags) == 1 && aws.ToString(in.Tags[0].Key) == "team"
	})).Return(&sagemaker.CreateMlflowTrackingServerOutput{TrackingServerArn: aws.String(serverArn)}, nil).Once()
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(described("Created"), nil)
	api.On("ListTags", mock.Anything, mock.MatchedBy(func(in *sagemaker.ListTagsInput) bool {
		return aws.ToString(in.ResourceArn) == serverArn
	})).Return(&sagemaker.ListTagsOutput{Tags: []types.Tag{{Key: aws.String("team"), Value: aws.String("ml")}}}, nil)

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: experiments()})
	require.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	assert.Equal(t, []resource.Tag{resource.NewTag("team", "ml")}, res.Model.Tags)
	assert.Equal(t, "Created", aws.ToString(res.Model.TrackingServerStatus))
	api.AssertExpectations(t)
}

func TestCreate_InvalidSize(t *testing.T) {
	t.Parallel()

	m := experiments()
	m.TrackingServerSize = aws.String("Huge")
	res := handle(t, &testutil.MockSageMakerAPI{}, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: m})
	assert.Equal(t, errkind.InvalidRequest, res.Kind)
	assert.Contains(t, res.Message(), "TrackingServerSize")
}

func TestUpdate_WaitsForMaintenance(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(described("Created"), nil).Once()
	api.On("UpdateMlflowTrackingServer", mock.Anything, mock.MatchedBy(func(in *sagemaker.UpdateMlflowTrackingServerInput) bool {
		return in.TrackingServerSize == types.TrackingServerSize("Medium") &&
			aws.ToString(in.ArtifactStoreUri) == "s3://mlflow-artifacts"
	})).Return(&sagemaker.UpdateMlflowTrackingServerOutput{TrackingServerArn: aws.String(serverArn)}, nil).Once()
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(described("MaintenanceInProgress"), nil)

	res := handle(t, api, engine.Request[*Model]{
		Operation: resource.OperationUpdate,
		Desired:   &Model{TrackingServerName: aws.String("experiments"), TrackingServerSize: aws.String("Medium")},
	})
	require.Equal(t, engine.StatusInProgress, res.Status, res.Message())
	assert.Equal(t, engine.StageStabilize, res.Progress.Stage)
	api.AssertExpectations(t)
}

func TestUpdate_ByArnInheritsName(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(described("Created"), nil)
	api.On("UpdateMlflowTrackingServer", mock.Anything, mock.MatchedBy(func(in *sagemaker.UpdateMlflowTrackingServerInput) bool {
		return aws.ToString(in.TrackingServerName) == "experiments" && in.TrackingServerSize == types.TrackingServerSize("Large")
	})).Return(&sagemaker.UpdateMlflowTrackingServerOutput{TrackingServerArn: aws.String(serverArn)}, nil).Once()
	api.On("ListTags", mock.Anything, mock.Anything).Return(&sagemaker.ListTagsOutput{}, nil)

	res := handle(t, api, engine.Request[*Model]{
		Operation: resource.OperationUpdate,
		Desired:   &Model{TrackingServerArn: aws.String(serverArn), TrackingServerSize: aws.String("Large")},
	})
	require.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	assert.Equal(t, "experiments", aws.ToString(res.Model.TrackingServerName))
	api.AssertExpectations(t)
}

func TestUpdate_RoleIsImmutable(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(described("Created"), nil)

	res := handle(t, api, engine.Request[*Model]{
		Operation: resource.OperationUpdate,
		Desired:   &Model{TrackingServerName: aws.String("experiments"), RoleArn: aws.String("arn:aws:iam::123456789012:role/other")},
	})
	assert.Equal(t, errkind.InvalidRequest, res.Kind)
	assert.Contains(t, res.Message(), "RoleArn cannot be changed")
}

func TestRead_ByArn(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeMlflowTrackingServer", mock.Anything, &sagemaker.DescribeMlflowTrackingServerInput{TrackingServerName: aws.String("experiments")}).
		Return(described("Created"), nil)
	api.On("ListTags", mock.Anything, mock.Anything).Return(&sagemaker.ListTagsOutput{}, nil)

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationRead, Desired: &Model{TrackingServerArn: aws.String(serverArn)}})
	require.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	assert.Nil(t, res.Model.Tags)
}

func TestDelete_Failed(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(described("Created"), nil).Once()
	api.On("DeleteMlflowTrackingServer", mock.Anything, mock.Anything).Return(&sagemaker.DeleteMlflowTrackingServerOutput{}, nil).Once()
	api.On("DescribeMlflowTrackingServer", mock.Anything, mock.Anything).Return(described("DeleteFailed"), nil)

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationDelete, Desired: &Model{TrackingServerName: aws.String("experiments")}})
	assert.Equal(t, errkind.NotStabilized, res.Kind)
}

func TestList(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("ListMlflowTrackingServers", mock.Anything, mock.Anything).Return(&sagemaker.ListMlflowTrackingServersOutput{
		TrackingServerSummaries: []types.TrackingServerSummary{{
			TrackingServerName:   aws.String("experiments"),
			TrackingServerArn:    aws.String(serverArn),
			TrackingServerStatus: types.TrackingServerStatus("Created"),
		}},
	}, nil)

	res := handle(t, api, engine.Request[*Model]{Operation: resource.OperationList})
	require.Equal(t, engine.StatusSuccess, res.Status)
	require.Len(t, res.Models, 1)
	assert.Equal(t, "experiments", aws.ToString(res.Models[0].TrackingServerName))
}
