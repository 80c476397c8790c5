package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"yolodesk/internal/models"

	"github.com/gorilla/websocket"
)

// ErrDetector wraps failures reported by the detector server itself.
var ErrDetector = errors.New("detector error")

// Model is a loaded detection model.
type Model interface {
	Path() string
	Detect(ctx context.Context, img image.Image) ([]models.DetectionResult, error)
}

type loadRequest struct {
	Type   string  `json:"type"`
	Model  string  `json:"model"`
	Device Device  `json:"device"`
	Conf   float64 `json:"conf"`
}

type reply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// RemoteDetector talks to the detection server over a websocket. The server
// holds one model at a time; calls are serialized and a dropped connection is
// redialed on the next call.
type RemoteDetector struct {
	serverURL string
	device    Device
	conf      float64

	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	loaded string
}

func NewRemoteDetector(host string, device Device, conf float64) *RemoteDetector {
	return &RemoteDetector{
		serverURL: serverURL(host),
		device:    device,
		conf:      conf,
		dialer:    websocket.DefaultDialer,
	}
}

func serverURL(host string) string {
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}
	return u.String()
}

// SetAddress points the detector at another server. Models loaded on the old
// one are reloaded on first use.
func (d *RemoteDetector) SetAddress(host string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if next := serverURL(host); next != d.serverURL {
		d.drop()
		d.serverURL = next
	}
}

func (d *RemoteDetector) Device() Device { return d.device }

// Load asks the server to load the weights at path.
func (d *RemoteDetector) Load(ctx context.Context, path string) (Model, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.load(ctx, path); err != nil {
		return nil, err
	}
	return &remoteModel{detector: d, path: path}, nil
}

func (d *RemoteDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.loaded = ""
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *RemoteDetector) load(ctx context.Context, path string) error {
	payload, err := json.Marshal(loadRequest{Type: "load", Model: path, Device: d.device, Conf: d.conf})
	if err != nil {
		return err
	}

	msg, err := d.roundTrip(ctx, websocket.TextMessage, payload)
	if err != nil {
		return err
	}

	var r reply
	if err := json.Unmarshal(msg, &r); err != nil {
		return fmt.Errorf("decode load reply: %w", err)
	}
	if r.Status != "ok" {
		return fmt.Errorf("%w: %s", ErrDetector, r.Message)
	}

	d.loaded = path
	slog.Info("model loaded", "model", path, "device", d.device)
	return nil
}

func (d *RemoteDetector) detect(ctx context.Context, path string, img image.Image) ([]models.DetectionResult, error) {
	if d.loaded != path {
		if err := d.load(ctx, path); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	msg, err := d.roundTrip(ctx, websocket.BinaryMessage, buf.Bytes())
	if err != nil {
		return nil, err
	}

	msg = bytes.TrimSpace(msg)
	if len(msg) > 0 && msg[0] == '[' {
		var results []models.DetectionResult
		if err := json.Unmarshal(msg, &results); err != nil {
			return nil, fmt.Errorf("decode detections: %w", err)
		}
		return results, nil
	}

	var r reply
	if err := json.Unmarshal(msg, &r); err != nil {
		return nil, fmt.Errorf("decode detect reply: %w", err)
	}
	return nil, fmt.Errorf("%w: %s", ErrDetector, r.Message)
}

// roundTrip writes one frame and reads the reply. Any transport failure drops
// the connection so the next call redials.
func (d *RemoteDetector) roundTrip(ctx context.Context, messageType int, payload []byte) ([]byte, error) {
	if d.conn == nil {
		slog.Debug("connecting to detector server", "url", d.serverURL)
		conn, _, err := d.dialer.DialContext(ctx, d.serverURL, nil)
		if err != nil {
			return nil, fmt.Errorf("connect to detector %s: %w", d.serverURL, err)
		}
		d.conn = conn
		d.loaded = ""
	}

	conn := d.conn
	deadline, _ := ctx.Deadline()
	conn.SetWriteDeadline(deadline)
	conn.SetReadDeadline(deadline)

	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteMessage(messageType, payload); err != nil {
		d.drop()
		return nil, fmt.Errorf("send to detector: %w", err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		d.drop()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("read from detector: %w", err)
	}

	return msg, nil
}

func (d *RemoteDetector) drop() {
	if d.conn != nil {
		d.conn.Close()
	}
	d.conn = nil
	d.loaded = ""
}

type remoteModel struct {
	detector *RemoteDetector
	path     string
}

func (m *remoteModel) Path() string { return m.path }

// Detect reloads the model first if another one was loaded since.
func (m *remoteModel) Detect(ctx context.Context, img image.Image) ([]models.DetectionResult, error) {
	m.detector.mu.Lock()
	defer m.detector.mu.Unlock()

	return m.detector.detect(ctx, m.path, img)
}
