package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Source values accepted by the API.
const (
	SourceYouTube = "youtube"
	SourceVimeo   = "vimeo"
	SourceLocal   = "local"
	SourceOther   = "otro"
)

var Sources = []string{SourceYouTube, SourceVimeo, SourceLocal, SourceOther}

type Owner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"nombre_completo"`
	Email    string `json:"email"`
}

type Video struct {
	ID              int      `json:"id"`
	Title           string   `json:"titulo"`
	Owner           *Owner   `json:"usuario"`
	Source          string   `json:"fuente"`
	Stage           Stage    `json:"estado"`
	OriginalURL     string   `json:"url_original"`
	DurationSeconds *int     `json:"duracion_segundos"`
	Duration        string   `json:"duracion_formateada"`
	Format          string   `json:"formato"`
	SizeMB          *float64 `json:"tamano_mb"`
	UploadedAt      Time     `json:"fecha_subida"`
	ProcessedAt     Time     `json:"fecha_procesamiento"`
	ThumbnailURL    string   `json:"miniatura_url"`
	SegmentCount    int      `json:"cantidad_segmentos"`
	HasTranscript   bool     `json:"tiene_transcripcion"`
	HasSummary      bool     `json:"tiene_resumen"`
}

type Stats struct {
	TotalVideos          int            `json:"total_videos"`
	ByStage              map[string]int `json:"por_estado"`
	BySource             map[string]int `json:"por_fuente"`
	TotalDurationSeconds int            `json:"duracion_total_segundos"`
	TotalDuration        string         `json:"duracion_total_formateada"`
}

type ProcessingLog struct {
	Step       string `json:"etapa"`
	Status     string `json:"estado"`
	Message    string `json:"mensaje"`
	Timestamp  Time   `json:"timestamp"`
	DurationMS *int   `json:"duracion_ms"`
}

type ProcessingStatus struct {
	VideoID     int             `json:"video_id"`
	Title       string          `json:"titulo"`
	Stage       Stage           `json:"estado"`
	UploadedAt  Time            `json:"fecha_subida"`
	ProcessedAt Time            `json:"fecha_procesamiento"`
	Logs        []ProcessingLog `json:"logs"`
}

type ProcessingStarted struct {
	Message string `json:"message"`
	VideoID int    `json:"video_id"`
	TaskID  string `json:"task_id"`
	Stage   Stage  `json:"estado"`
}

type Summary struct {
	Text        string `json:"resumen_completo"`
	Topics      string `json:"temas_principales"`
	Conclusions string `json:"conclusiones_clave"`
	KeyPoints   string `json:"puntos_importantes"`
	WordCount   *int   `json:"cantidad_palabras"`
	Model       string `json:"modelo_ia_utilizado"`
	GeneratedAt Time   `json:"fecha_generacion"`
}

type Transcript struct {
	Text        string   `json:"contenido_completo"`
	Language    string   `json:"idioma_detectado"`
	Accuracy    *float64 `json:"precision_estimada"`
	Model       string   `json:"modelo_utilizado"`
	GeneratedAt Time     `json:"fecha_generacion"`
}

// Segment is one thematic section of an analysed video.
type Segment struct {
	ID              int      `json:"id"`
	Title           string   `json:"titulo"`
	Description     string   `json:"descripcion"`
	StartSeconds    float64  `json:"timestamp_inicio_seg"`
	EndSeconds      float64  `json:"timestamp_fin_seg"`
	Start           string   `json:"timestamp_inicio_formateado"`
	End             string   `json:"timestamp_fin_formateado"`
	DurationSeconds float64  `json:"duracion_seg"`
	Order           int      `json:"orden"`
	Relevance       *float64 `json:"relevancia_score"`
	ContentType     string   `json:"tipo_contenido"`
	ThumbnailURL    string   `json:"miniatura_url"`
}

// UploadInput is one new video. Exactly one of URL or File is expected;
// the API enforces it.
type UploadInput struct {
	Title    string
	Source   string
	URL      string
	File     io.Reader
	FileName string
}

type page struct {
	Results json.RawMessage `json:"results"`
}

func (c *Client) ListVideos(ctx context.Context, token string) ([]Video, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/videos/videos/", token, nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	return decodeList[Video](raw, "video list")
}

// decodeList accepts a bare array or a paginated {"results": [...]}.
func decodeList[T any](raw json.RawMessage, what string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var p page
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	if len(p.Results) == 0 {
		return []T{}, nil
	}
	if err := json.Unmarshal(p.Results, &items); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return items, nil
}

func (c *Client) GetVideo(ctx context.Context, token string, id int) (*Video, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/videos/videos/%d/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var v Video
	if err := c.do(req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) CreateVideo(ctx context.Context, token string, in UploadInput) (*Video, error) {
	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	go func() {
		writer.CloseWithError(writeUploadForm(form, in))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/videos/videos/", token, body)
	if err != nil {
		body.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var v Video
	if err := c.do(req, &v); err != nil {
		body.Close()
		return nil, err
	}
	return &v, nil
}

func writeUploadForm(form *multipart.Writer, in UploadInput) error {
	fields := [][2]string{
		{"titulo", in.Title},
		{"fuente", in.Source},
	}
	if in.URL != "" {
		fields = append(fields, [2]string{"url_original", in.URL})
	}
	for _, f := range fields {
		if err := form.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if in.File != nil {
		part, err := form.CreateFormFile("ruta_video_completo", in.FileName)
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, in.File); err != nil {
			return fmt.Errorf("copy file: %w", err)
		}
	}
	return form.Close()
}

func (c *Client) Stats(ctx context.Context, token string) (*Stats, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/videos/videos/estadisticas/", token, nil)
	if err != nil {
		return nil, err
	}
	var s Stats
	if err := c.do(req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ProcessingStatus(ctx context.Context, token string, id int) (*ProcessingStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/videos/videos/%d/estado_procesamiento/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var s ProcessingStatus
	if err := c.do(req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) StartProcessing(ctx context.Context, token string, id int) (*ProcessingStarted, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/videos/videos/%d/procesar/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var started ProcessingStarted
	if err := c.do(req, &started); err != nil {
		return nil, err
	}
	return &started, nil
}

// Summary returns ErrNotFound while the video has no executive summary.
func (c *Client) Summary(ctx context.Context, token string, id int) (*Summary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/videos/videos/%d/resumen/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var s Summary
	if err := c.do(req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Transcript returns ErrNotFound while the video has no transcript.
func (c *Client) Transcript(ctx context.Context, token string, id int) (*Transcript, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/videos/videos/%d/transcripcion/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var t Transcript
	if err := c.do(req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Segments(ctx context.Context, token string, id int) ([]Segment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/videos/videos/%d/segmentos/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	return decodeList[Segment](raw, "segment list")
}

// Reanalyze reruns analysis on an existing transcript. The API answers 400
// when the video has none.
func (c *Client) Reanalyze(ctx context.Context, token string, id int) (*ProcessingStarted, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/videos/videos/%d/reanalizar/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var started ProcessingStarted
	if err := c.do(req, &started); err != nil {
		return nil, err
	}
	return &started, nil
}
