// Package credentials describes the provider credential and carries the
// project identifier used to address the hosted node.
package credentials

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// EnvProjectID is the environment variable consulted for the project id
const EnvProjectID = "INFURA_PROJECT_ID"

const redacted = "[REDACTED]"

// ErrMissingProjectID is returned when no project id is configured
var ErrMissingProjectID = errors.New("projectId is required")

// PropertyType is the type of a credential property
type PropertyType string

const (
	TypeString PropertyType = "string"
)

// Property describes one configurable credential field
type Property struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Type        PropertyType `json:"type"`
	Default     string       `json:"default"`
	Required    bool         `json:"required"`
	Description string       `json:"description"`
}

// Descriptor describes a credential type and its fields
type Descriptor struct {
	Name             string     `json:"name"`
	DisplayName      string     `json:"displayName"`
	DocumentationURL string     `json:"documentationUrl"`
	Properties       []Property `json:"properties"`
}

// InfuraAPI is the descriptor for the provider credential
var InfuraAPI = Descriptor{
	Name:             "infuraApi",
	DisplayName:      "Infura API",
	DocumentationURL: "https://docs.metamask.io/services/",
	Properties: []Property{
		{
			Name:        "projectId",
			DisplayName: "Project ID",
			Type:        TypeString,
			Default:     "",
			Required:    true,
			Description: "Your Infura Project ID",
		},
	},
}

// Credentials holds the secret used to address the provider.
// The project id is never rendered by String, JSON or log output.
type Credentials struct {
	ProjectID string `json:"-" yaml:"projectId"`
}

// New creates Credentials from a project id
func New(projectID string) Credentials {
	return Credentials{ProjectID: strings.TrimSpace(projectID)}
}

// Validate checks that every required property is present
func (c Credentials) Validate() error {
	for _, p := range InfuraAPI.Properties {
		if p.Required && strings.TrimSpace(c.value(p.Name)) == "" {
			if p.Name == "projectId" {
				return ErrMissingProjectID
			}
			return errors.New(p.Name + " is required")
		}
	}
	return nil
}

func (c Credentials) value(name string) string {
	switch name {
	case "projectId":
		return c.ProjectID
	}
	return ""
}

// String implements fmt.Stringer without revealing the secret
func (c Credentials) String() string {
	if c.ProjectID == "" {
		return "Credentials{projectId: <unset>}"
	}
	return "Credentials{projectId: " + redacted + "}"
}

// GoString keeps %#v from printing the secret
func (c Credentials) GoString() string {
	return c.String()
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("projectIdSet", c.ProjectID != "")
}

// Redact replaces every occurrence of the project id in s
func (c Credentials) Redact(s string) string {
	if c.ProjectID == "" {
		return s
	}
	return strings.ReplaceAll(s, c.ProjectID, redacted)
}
