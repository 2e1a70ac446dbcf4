package models

import "time"

// Company is a subscriber organisation. Embedded holds the per-company
// display/download flags for embedded media.
type Company struct {
	ID        string      `json:"_id" db:"id"`
	Name      string      `json:"name" db:"name"`
	IsEnabled bool        `json:"is_enabled" db:"is_enabled"`
	Embedded  Permissions `json:"embedded"`
}

// Permissions are the embedded-media capability flags of a company. Two
// axes (display, download) over video/audio/images/social media, plus the
// "all" shortcut and the sd permit flag. An axis with no flag set falls
// back to allow-everything; see entitle.EffectiveTags.
type Permissions struct {
	SocialMediaDisplay  bool `json:"social_media_display"`
	VideoDisplay        bool `json:"video_display"`
	AudioDisplay        bool `json:"audio_display"`
	ImagesDisplay       bool `json:"images_display"`
	AllDisplay          bool `json:"all_display"`
	SdPermitDisplay     bool `json:"sdpermit_display"`
	SocialMediaDownload bool `json:"social_media_download"`
	VideoDownload       bool `json:"video_download"`
	AudioDownload       bool `json:"audio_download"`
	ImagesDownload      bool `json:"images_download"`
	AllDownload         bool `json:"all_download"`
	SdPermitDownload    bool `json:"sdpermit_download"`
}

// User is an account belonging to a company.
type User struct {
	ID        string `json:"_id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Email     string `json:"email" db:"email"`
	CompanyID string `json:"company,omitempty" db:"company_id"`
	Token     string `json:"-" db:"token"`
	IsEnabled bool   `json:"is_enabled" db:"is_enabled"`
}

// Principal identifies the requester of an API call.
type Principal struct {
	UserID    string
	CompanyID string
}

// Product is a commercial content package companies subscribe to.
type Product struct {
	ID          string   `json:"_id" db:"id"`
	Name        string   `json:"name" db:"name"`
	SDProductID string   `json:"sd_product_id,omitempty" db:"sd_product_id"`
	ProductType string   `json:"product_type" db:"product_type"`
	IsEnabled   bool     `json:"is_enabled" db:"is_enabled"`
	Companies   []string `json:"companies,omitempty"`
}

// HistoryRecord is one audit entry written for every successful download.
type HistoryRecord struct {
	ID             string    `json:"_id" db:"id"`
	Action         string    `json:"action" db:"action"`
	UserID         string    `json:"user" db:"user_id"`
	CompanyID      string    `json:"company" db:"company_id"`
	ItemID         string    `json:"item" db:"item_id"`
	Version        int       `json:"version" db:"version"`
	Section        string    `json:"section" db:"section"`
	VersionCreated time.Time `json:"versioncreated" db:"versioncreated"`
}
