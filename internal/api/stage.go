package api

// Stage is the processing state the API reports for a video.
type Stage string

const (
	StagePending      Stage = "pendiente"
	StageDownloading  Stage = "descargando"
	StageProcessing   Stage = "procesando"
	StageTranscribing Stage = "transcribiendo"
	StageAnalyzing    Stage = "analizando"
	StageSegmenting   Stage = "segmentando"
	StageCompleted    Stage = "completado"
	StageFailed       Stage = "error"
)

var stageProgress = map[Stage]int{
	StagePending:      0,
	StageDownloading:  15,
	StageProcessing:   30,
	StageTranscribing: 50,
	StageAnalyzing:    70,
	StageSegmenting:   85,
	StageCompleted:    100,
}

var stageLabels = map[Stage]string{
	StagePending:      "Pending",
	StageDownloading:  "Downloading",
	StageProcessing:   "Processing",
	StageTranscribing: "Transcribing",
	StageAnalyzing:    "Analyzing",
	StageSegmenting:   "Segmenting",
	StageCompleted:    "Completed",
	StageFailed:       "Failed",
}

// Progress is the percentage shown on the analysis bar. Failed and unknown
// stages report 0.
func (s Stage) Progress() int {
	return stageProgress[s]
}

func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// InFlight reports whether the API is still working on the video.
func (s Stage) InFlight() bool {
	switch s {
	case StageDownloading, StageProcessing, StageTranscribing, StageAnalyzing, StageSegmenting:
		return true
	default:
		return false
	}
}

func (s Stage) Failed() bool {
	return s == StageFailed
}

// Startable reports whether processing can be requested for the video.
func (s Stage) Startable() bool {
	return s == StagePending
}

// Reanalyzable reports whether a finished or failed video can be analysed again.
func (s Stage) Reanalyzable() bool {
	return s == StageCompleted || s == StageFailed
}
