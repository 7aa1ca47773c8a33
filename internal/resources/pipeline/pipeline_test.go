package pipeline

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

const (
	pipelineArn = "arn:aws:sagemaker:eu-west-1:123456789012:pipeline/train"
	definition  = `{"Version":"2020-12-01","Steps":[]}`
)

func handle(t *testing.T, api *testutil.MockSageMakerAPI, tags engine.TagAPI, req engine.Request[*Model]) engine.Result[*Model] {
	t.Helper()
	e, err := engine.New(New(api, tags), engine.WithClock(testutil.NewClock(testutil.Epoch).Now))
	require.NoError(t, err)
	return e.Handle(context.Background(), req)
}

func train() *Model {
	return &Model{
		PipelineName:           aws.String("train"),
		RoleArn:                aws.String("arn:aws:iam::123456789012:role/pipelines"),
		PipelineDefinitionBody: aws.String(definition),
	}
}

func active() *sagemaker.DescribePipelineOutput {
	return &sagemaker.DescribePipelineOutput{
		PipelineName:       aws.String("train"),
		PipelineArn:        aws.String(pipelineArn),
		RoleArn:            aws.String("arn:aws:iam::123456789012:role/pipelines"),
		PipelineDefinition: aws.String(definition),
		PipelineStatus:     types.PipelineStatus("Active"),
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribePipeline", mock.Anything, mock.Anything).
		Return(nil, testutil.APIError("ResourceNotFound", "Pipeline train does not exist")).Once()
	api.On("CreatePipeline", mock.Anything, mock.MatchedBy(func(in *sagemaker.CreatePipelineInput) bool {
		return aws.ToString(in.PipelineName) == "train" &&
			aws.ToString(in.ClientRequestToken) != "" &&
			in.ParallelismConfiguration != nil && aws.ToInt32(in.ParallelismConfiguration.MaxParallelExecutionSteps) == 4
	})).Return(&sagemaker.CreatePipelineOutput{PipelineArn: aws.String(pipelineArn)}, nil).Once()
	api.On("DescribePipeline", mock.Anything, mock.Anything).Return(active(), nil)

	m := train()
	m.MaxParallelExecutionSteps = aws.Int32(4)
	res := handle(t, api, nil, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: m})

	require.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	assert.Equal(t, pipelineArn, aws.ToString(res.Model.PipelineArn))
	assert.Equal(t, "Active", aws.ToString(res.Model.PipelineStatus))
	api.AssertExpectations(t)
}

func TestCreate_AlreadyExists(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribePipeline", mock.Anything, mock.Anything).Return(active(), nil)

	res := handle(t, api, nil, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: train()})
	assert.Equal(t, errkind.AlreadyExists, res.Kind)
	assert.Equal(t, "Resource of type 'AWS::SageMaker::Pipeline' with identifier 'train' already exists.", res.Message())
	api.AssertNotCalled(t, "CreatePipeline", mock.Anything, mock.Anything)
}

func TestCreate_RequiresDefinition(t *testing.T) {
	t.Parallel()

	m := train()
	m.PipelineDefinitionBody = nil
	res := handle(t, &testutil.MockSageMakerAPI{}, nil, engine.Request[*Model]{Operation: resource.OperationCreate, Desired: m})
	assert.Equal(t, errkind.InvalidRequest, res.Kind)
	assert.Contains(t, res.Message(), "PipelineDefinitionBody or PipelineDefinitionS3Location")
}

func TestUpdate_KeepsDefinitionAndReconcilesTags(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribePipeline", mock.Anything, mock.Anything).Return(active(), nil)
	api.On("UpdatePipeline", mock.Anything, mock.MatchedBy(func(in *sagemaker.UpdatePipelineInput) bool {
		return aws.ToString(in.PipelineDefinition) == definition && aws.ToString(in.PipelineDescription) == "nightly"
	})).Return(&sagemaker.UpdatePipelineOutput{PipelineArn: aws.String(pipelineArn)}, nil).Once()

	tags := &testutil.MockTagAPI{}
	tags.On("ListTags", mock.Anything, pipelineArn).Return(map[string]string{"env": "dev", "old": "x"}, nil)
	tags.On("AddTags", mock.Anything, pipelineArn, map[string]string{"env": "prod"}).Return(nil).Once()
	tags.On("RemoveTags", mock.Anything, pipelineArn, []string{"old"}).Return(nil).Once()

	m := &Model{
		PipelineName:        aws.String("train"),
		PipelineDescription: aws.String("nightly"),
		Tags:                []resource.Tag{resource.NewTag("env", "prod")},
	}
	res := handle(t, api, tags, engine.Request[*Model]{Operation: resource.OperationUpdate, Desired: m})

	require.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	api.AssertExpectations(t)
	tags.AssertExpectations(t)
}

func TestUpdate_ByArnInheritsName(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribePipeline", mock.Anything, &sagemaker.DescribePipelineInput{PipelineName: aws.String(pipelineArn)}).Return(active(), nil).Once()
	api.On("DescribePipeline", mock.Anything, &sagemaker.DescribePipelineInput{PipelineName: aws.String("train")}).Return(active(), nil)
	api.On("UpdatePipeline", mock.Anything, mock.MatchedBy(func(in *sagemaker.UpdatePipelineInput) bool {
		return aws.ToString(in.PipelineName) == "train" && aws.ToString(in.PipelineDescription) == "nightly"
	})).Return(&sagemaker.UpdatePipelineOutput{PipelineArn: aws.String(pipelineArn)}, nil).Once()

	m := &Model{PipelineArn: aws.String(pipelineArn), PipelineDescription: aws.String("nightly")}
	res := handle(t, api, nil, engine.Request[*Model]{Operation: resource.OperationUpdate, Desired: m})

	require.Equal(t, engine.StatusSuccess, res.Status, res.Message())
	api.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribePipeline", mock.Anything, mock.Anything).Return(active(), nil).Once()
	api.On("DeletePipeline", mock.Anything, mock.MatchedBy(func(in *sagemaker.DeletePipelineInput) bool {
		return aws.ToString(in.PipelineName) == "train" && aws.ToString(in.ClientRequestToken) != ""
	})).Return(&sagemaker.DeletePipelineOutput{PipelineArn: aws.String(pipelineArn)}, nil).Once()
	deleting := active()
	deleting.PipelineStatus = types.PipelineStatus("Deleting")
	api.On("DescribePipeline", mock.Anything, mock.Anything).Return(deleting, nil)

	res := handle(t, api, nil, engine.Request[*Model]{Operation: resource.OperationDelete, Desired: &Model{PipelineName: aws.String("train")}})
	assert.Equal(t, engine.StatusInProgress, res.Status)
	assert.Equal(t, 120, res.DelaySeconds())
	api.AssertExpectations(t)
}

func TestRead_ByArn(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("DescribePipeline", mock.Anything, &sagemaker.DescribePipelineInput{PipelineName: aws.String(pipelineArn)}).Return(active(), nil)

	res := handle(t, api, nil, engine.Request[*Model]{Operation: resource.OperationRead, Desired: &Model{PipelineArn: aws.String(pipelineArn)}})
	require.Equal(t, engine.StatusSuccess, res.Status)
	assert.Equal(t, "train", aws.ToString(res.Model.PipelineName))
}

func TestList(t *testing.T) {
	t.Parallel()

	api := &testutil.MockSageMakerAPI{}
	api.On("ListPipelines", mock.Anything, &sagemaker.ListPipelinesInput{}).Return(&sagemaker.ListPipelinesOutput{
		PipelineSummaries: []types.PipelineSummary{{PipelineName: aws.String("train"), PipelineArn: aws.String(pipelineArn)}},
		NextToken:         aws.String("more"),
	}, nil)

	res := handle(t, api, nil, engine.Request[*Model]{Operation: resource.OperationList})
	require.Equal(t, engine.StatusSuccess, res.Status)
	require.Len(t, res.Models, 1)
	assert.Equal(t, "more", res.NextToken)
}
