package resources

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"sigs.k8s.io/yaml"

	"github.com/imamik/sagerec/internal/resource"
	"github.com/imamik/sagerec/internal/resources/domain"
	"github.com/imamik/sagerec/internal/resources/mlflow"
	"github.com/imamik/sagerec/internal/resources/modelpackage"
	"github.com/imamik/sagerec/internal/resources/pipeline"
	"github.com/imamik/sagerec/internal/resources/project"
	"github.com/imamik/sagerec/internal/resources/userprofile"
)

// SampleInput holds the answers used to fill a document skeleton.
type SampleInput struct {
	Name    string
	RoleArn string
	// Parent is the owning domain id or model package group, where the
	// type has one.
	Parent string
	Tags   map[string]string
}

// Sample renders a desired-state YAML document for typeName. Values the
// input does not provide are left as placeholders.
func Sample(typeName string, in SampleInput) ([]byte, error) {
	role := aws.String(orDefault(in.RoleArn, "arn:aws:iam::123456789012:role/sagemaker-execution"))
	tags := resource.TagsFromMap(in.Tags)

	var model any
	switch typeName {
	case domain.TypeName:
		model = &domain.Model{
			DomainName:          aws.String(in.Name),
			AuthMode:            aws.String("IAM"),
			VpcId:               aws.String("vpc-0123456789abcdef0"),
			SubnetIds:           []string{"subnet-0123456789abcdef0"},
			DefaultUserSettings: &domain.UserSettings{ExecutionRole: role},
			Tags:                tags,
		}
	case userprofile.TypeName:
		model = &userprofile.Model{
			DomainId:        aws.String(orDefault(in.Parent, "d-xxxxxxxxxxxx")),
			UserProfileName: aws.String(in.Name),
			UserSettings:    &domain.UserSettings{ExecutionRole: role},
			Tags:            tags,
		}
	case pipeline.TypeName:
		model = &pipeline.Model{
			PipelineName:           aws.String(in.Name),
			RoleArn:                role,
			PipelineDefinitionBody: aws.String(`{"Version":"2020-12-01","Steps":[]}`),
			Tags:                   tags,
		}
	case project.TypeName:
		model = &project.Model{
			ProjectName: aws.String(in.Name),
			ServiceCatalogProvisioningDetails: &project.ProvisioningDetails{
				ProductId:              aws.String("prod-xxxxxxxxxxxxx"),
				ProvisioningArtifactId: aws.String("pa-xxxxxxxxxxxxx"),
			},
			Tags: tags,
		}
	case modelpackage.TypeName:
		model = &modelpackage.Model{
			ModelPackageGroupName: aws.String(orDefault(in.Parent, in.Name)),
			InferenceSpecification: &modelpackage.InferenceSpecification{
				Containers: []modelpackage.Container{{
					Image:        aws.String("123456789012.dkr.ecr.us-east-1.amazonaws.com/model:latest"),
					ModelDataUrl: aws.String("s3://bucket/model.tar.gz"),
				}},
				SupportedContentTypes:      []string{"text/csv"},
				SupportedResponseMIMETypes: []string{"text/csv"},
			},
			ModelApprovalStatus: aws.String("PendingManualApproval"),
			Tags:                tags,
		}
	case mlflow.TypeName:
		model = &mlflow.Model{
			TrackingServerName: aws.String(in.Name),
			ArtifactStoreUri:   aws.String("s3://bucket/mlflow"),
			RoleArn:            role,
			TrackingServerSize: aws.String("Small"),
			Tags:               tags,
		}
	default:
		return nil, fmt.Errorf("unsupported resource type %q", typeName)
	}

	out, err := yaml.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s document: %w", typeName, err)
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
