package compiler

import (
	"github.com/felixgeelhaar/albmanager/internal/domain/cfn"
	"github.com/felixgeelhaar/albmanager/internal/domain/descriptor"
	"github.com/google/uuid"
)

// BoundEvent identifies an event that was bound during the build.
type BoundEvent struct {
	Function string `json:"function"`
	Index    int    `json:"index"`
}

// Report summarizes what providers changed during a build.
type Report struct {
	Resources   []string     `json:"resources"`
	BoundEvents []BoundEvent `json:"bound_events"`
}

// BuildContext is the state shared by all hooks of one build: the template
// under construction and the service descriptor.
type BuildContext struct {
	buildID  string
	template *cfn.Template
	service  *descriptor.Service
	report   Report
}

// NewBuildContext creates a build context with a fresh build ID.
func NewBuildContext(template *cfn.Template, service *descriptor.Service) *BuildContext {
	return &BuildContext{
		buildID:  uuid.New().String(),
		template: template,
		service:  service,
	}
}

// BuildID returns the unique identifier of this build.
func (b *BuildContext) BuildID() string {
	return b.buildID
}

// Template returns the template under construction.
func (b *BuildContext) Template() *cfn.Template {
	return b.template
}

// Service returns the service descriptor.
func (b *BuildContext) Service() *descriptor.Service {
	return b.service
}

// RecordResources notes resources written by a hook.
func (b *BuildContext) RecordResources(names ...string) {
	b.report.Resources = append(b.report.Resources, names...)
}

// RecordBoundEvent notes an event bound by a hook.
func (b *BuildContext) RecordBoundEvent(function string, index int) {
	b.report.BoundEvents = append(b.report.BoundEvents, BoundEvent{Function: function, Index: index})
}

// Report returns a copy of the build report.
func (b *BuildContext) Report() Report {
	return Report{
		Resources:   append([]string(nil), b.report.Resources...),
		BoundEvents: append([]BoundEvent(nil), b.report.BoundEvents...),
	}
}
