// Package domain manages AWS::SageMaker::Domain resources.
//
// A domain is identified by its DomainId, assigned by SageMaker on create.
// AuthMode, DomainName, VpcId, SubnetIds and KmsKeyId are create-only.
package domain
