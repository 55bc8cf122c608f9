package model

import "time"

// ProviderLocalEdit tags records created by saving an edited image rather
// than by a generation call.
const ProviderLocalEdit = "local-edit"

// ImageRecord is one row of the image history catalog.
type ImageRecord struct {
	ID        int64     `json:"id"`
	Prompt    string    `json:"prompt"`
	Filename  string    `json:"filename"`
	Filepath  string    `json:"filepath"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	ExtraData string    `json:"extra_data,omitempty"`
}

// GenerationRequest describes one image-generation call. It is transient and
// never persisted; the resulting ImageRecord is.
type GenerationRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}
