// Package models holds the request and response bodies of the HTTP API.
package models

import "time"

// HealthData is the body of GET /api/health.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
	Loop    string `json:"loop" example:"running" doc:"Inspection loop state"`
}

type HealthResponse struct {
	Body HealthData
}

// VersionData is the body of GET /api/version.
type VersionData struct {
	Version   string `json:"version" example:"1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go runtime version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"OS and architecture"`
}

type VersionResponse struct {
	Body VersionData
}

// ControlData describes one tunable control.
type ControlData struct {
	Name    string `json:"name" example:"hue-min" doc:"Control slug"`
	Label   string `json:"label" example:"Hue (min)" doc:"Display label"`
	Min     int    `json:"min" example:"0" doc:"Lower bound"`
	Max     int    `json:"max" example:"179" doc:"Upper bound"`
	Default int    `json:"default" example:"0" doc:"Initial value"`
	Value   int    `json:"value" example:"20" doc:"Current value"`
}

type ControlListData struct {
	Controls []ControlData `json:"controls" doc:"Controls in registration order"`
}

type ControlListResponse struct {
	Body ControlListData
}

type ControlResponse struct {
	Body ControlData
}

type ControlNameInput struct {
	Name string `path:"name" example:"hue-min" doc:"Control slug"`
}

// SetControlRequest sets a control; out-of-range values are clamped.
type SetControlRequest struct {
	Name string `path:"name" example:"hue-min" doc:"Control slug"`
	Body struct {
		Value int `json:"value" example:"20" doc:"New value"`
	}
}

// ViewData describes the latest image of a view.
type ViewData struct {
	Name    string    `json:"name" example:"mask-only" doc:"View slug"`
	Label   string    `json:"label" example:"Mask only" doc:"Display label"`
	Seq     uint64    `json:"seq" example:"1200" doc:"Sequence number of the latest image"`
	Width   int       `json:"width" example:"640" doc:"Image width"`
	Height  int       `json:"height" example:"480" doc:"Image height"`
	Updated time.Time `json:"updated" doc:"When the latest image was presented"`
}

type ViewListData struct {
	Views []ViewData `json:"views" doc:"Views presented so far"`
}

type ViewListResponse struct {
	Body ViewListData
}

type SnapshotRequest struct {
	Name string `path:"name" example:"mask-only" doc:"View slug"`
}

// SnapshotResponse is a PNG image.
type SnapshotResponse struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

type ViewStreamRequest struct {
	Name    string `path:"name" example:"adjusted-and-masked" doc:"View slug"`
	FPS     int    `query:"fps" default:"10" minimum:"1" maximum:"60" doc:"Maximum frames per second"`
	Quality int    `query:"quality" default:"80" minimum:"1" maximum:"100" doc:"JPEG quality"`
}

type LogLevelRequest struct {
	Module string `path:"module" example:"loop" doc:"Logger module"`
	Body   struct {
		Level string `json:"level" enum:"debug,info,warn,error" example:"debug" doc:"New level"`
	}
}

type LogLevelResponse struct {
	Body struct {
		Module string `json:"module" example:"loop" doc:"Logger module"`
		Level  string `json:"level" example:"debug" doc:"Level in effect"`
	}
}
