package domain

import (
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"

	"github.com/imamik/sagerec/internal/resource"
)

// Model is the desired and observed state of a domain.
type Model struct {
	DomainId             *string       `json:"DomainId,omitempty"`
	DomainArn            *string       `json:"DomainArn,omitempty"`
	DomainName           *string       `json:"DomainName,omitempty"`
	AuthMode             *string       `json:"AuthMode,omitempty"`
	DefaultUserSettings  *UserSettings `json:"DefaultUserSettings,omitempty"`
	SubnetIds            []string      `json:"SubnetIds,omitempty"`
	VpcId                *string       `json:"VpcId,omitempty"`
	KmsKeyId             *string       `json:"KmsKeyId,omitempty"`
	AppNetworkAccessType *string       `json:"AppNetworkAccessType,omitempty"`
	Url                  *string       `json:"Url,omitempty"`
	HomeEfsFileSystemId  *string       `json:"HomeEfsFileSystemId,omitempty"`
	Status               *string       `json:"Status,omitempty"`
	// HomeEfsRetention is Retain or Delete and applies to the home EFS file
	// system when the domain is deleted. Not stored by SageMaker.
	HomeEfsRetention *string        `json:"HomeEfsRetention,omitempty"`
	Tags             []resource.Tag `json:"Tags,omitempty"`
}

// UserSettings are the default settings of users in a domain.
type UserSettings struct {
	ExecutionRole  *string  `json:"ExecutionRole,omitempty"`
	SecurityGroups []string `json:"SecurityGroups,omitempty"`
}

// ToSDK converts s for a request.
func (s *UserSettings) ToSDK() *types.UserSettings {
	if s == nil {
		return nil
	}
	return &types.UserSettings{
		ExecutionRole:  s.ExecutionRole,
		SecurityGroups: s.SecurityGroups,
	}
}

// UserSettingsFromSDK converts settings from a describe response.
func UserSettingsFromSDK(s *types.UserSettings) *UserSettings {
	if s == nil {
		return nil
	}
	return &UserSettings{
		ExecutionRole:  s.ExecutionRole,
		SecurityGroups: s.SecurityGroups,
	}
}

func fromDescribe(out *sagemaker.DescribeDomainOutput, requested *Model) *Model {
	m := &Model{
		DomainId:             out.DomainId,
		DomainArn:            out.DomainArn,
		DomainName:           out.DomainName,
		DefaultUserSettings:  UserSettingsFromSDK(out.DefaultUserSettings),
		SubnetIds:            out.SubnetIds,
		VpcId:                out.VpcId,
		KmsKeyId:             out.KmsKeyId,
		Url:                  out.Url,
		HomeEfsFileSystemId:  out.HomeEfsFileSystemId,
		Status:               optional(string(out.Status)),
		AuthMode:             optional(string(out.AuthMode)),
		AppNetworkAccessType: optional(string(out.AppNetworkAccessType)),
	}
	if requested != nil {
		m.HomeEfsRetention = requested.HomeEfsRetention
	}
	return m
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
