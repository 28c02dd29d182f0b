package models

// Lesson is one course the account is enrolled in.
type Lesson struct {
	LessonID    int64  `json:"lessonId"`
	LessonTitle string `json:"lessonTitle"`
}

// Video is one video entry inside a lesson. Complete marks videos whose
// playback the server already considers finished.
type Video struct {
	VideoID    int64  `json:"videoId"`
	VideoTitle string `json:"videoTitle"`
	Complete   bool   `json:"complete"`
}

// Resource is one playable media resource belonging to a video.
type Resource struct {
	ResourceID int64 `json:"resourceId"`
}

// VideoDetail is the payload of the video-detail endpoint; only the resource
// list is of interest.
type VideoDetail struct {
	ResourceList []Resource `json:"resourceList"`
}

// ResourceDetail describes the playback state of a single resource. Both
// times are HH:MM:SS strings as the server reports them: ResourceTime is the
// last watched position, ResourceDuration the full length.
type ResourceDetail struct {
	ResourceTime     string `json:"resource_time"`
	ResourceDuration string `json:"resourceDuration"`
}
