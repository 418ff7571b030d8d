package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"

	"github.com/golang/snappy"
	"github.com/gorilla/websocket"

	"github.com/lumen-render/lumen/pkg/renderer"
	"github.com/lumen-render/lumen/pkg/scene"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The viewer page is served from the same origin; allow dev setups too
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Samples int    `json:"samples"`
	Depth   int    `json:"depth"`
	Seed    int64  `json:"seed"`
	Workers int    `json:"workers"`
	Format  string `json:"format"` // "json" (base64 PNG tiles) or "raw" (snappy RGBA frames)
}

// TileUpdate is sent after each completed tile in the json format
type TileUpdate struct {
	Type           string `json:"type"` // "tile"
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG of just this tile
	CompletedTiles int    `json:"completedTiles"`
	TotalTiles     int    `json:"totalTiles"`
	ElapsedMs      int64  `json:"elapsedMs"`
}

// FrameHeader precedes each binary frame in the raw format. The binary
// message that follows is the tile's RGBA rows, snappy-compressed, tightly
// packed at width*4 bytes per row.
type FrameHeader struct {
	Type           string `json:"type"` // "frame"
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	CompletedTiles int    `json:"completedTiles"`
	TotalTiles     int    `json:"totalTiles"`
	ElapsedMs      int64  `json:"elapsedMs"`
}

// CompleteUpdate closes a render stream
type CompleteUpdate struct {
	Type         string `json:"type"` // "complete"
	TotalPixels  int    `json:"totalPixels"`
	TotalSamples int    `json:"totalSamples"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// ErrorUpdate reports a request or render failure
type ErrorUpdate struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// handleRender streams a render over a websocket: progress after every tile,
// then a completion message. There is no mid-render cancellation; a client
// that wants a different render drops the connection and opens a new one.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	req, err := parseRenderRequest(r)
	if err != nil {
		conn.WriteJSON(ErrorUpdate{Type: "error", Message: err.Error()})
		return
	}

	if err := s.streamRender(conn, req); err != nil {
		conn.WriteJSON(ErrorUpdate{Type: "error", Message: err.Error()})
	}
}

// outboundMessage is one websocket frame queued for the writer goroutine.
// Every write to the connection goes through that single goroutine, so
// render progress and console lines never interleave mid-frame.
type outboundMessage struct {
	messageType int
	data        []byte
}

// streamRender runs the render and streams progress to the connection.
// A failed write means the client went away; the render drains to completion
// but nothing more is sent.
func (s *Server) streamRender(conn *websocket.Conn, req *RenderRequest) error {
	preset, err := scene.NewPreset(req.Scene)
	if err != nil {
		return err
	}

	aspectRatio := float64(req.Width) / float64(req.Height)
	camera, err := renderer.NewCamera(renderer.CameraConfigFromSettings(preset.Camera, aspectRatio))
	if err != nil {
		return err
	}

	cfg := renderer.Config{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
		NumWorkers:      req.Workers,
		TileSize:        64,
		Seed:            req.Seed,
	}

	messages := make(chan outboundMessage, 64)
	writerDone := make(chan struct{})
	go writeMessages(conn, messages, writerDone)

	rend, err := renderer.NewRenderer(preset.Scene, camera, cfg, NewWebLogger(messages))
	if err != nil {
		close(messages)
		<-writerDone
		return err
	}

	events := make(chan renderer.TileEvent, 16)
	done := make(chan renderResult, 1)
	go func() {
		img, stats, err := rend.RenderWithEvents(events)
		close(events)
		done <- renderResult{img: img, stats: stats, err: err}
	}()

	var encodeErr error
	for event := range events {
		if encodeErr != nil {
			continue // Keep draining so the render goroutine can finish
		}
		frames, err := encodeTileEvent(req, event)
		if err != nil {
			encodeErr = err
			continue
		}
		for _, frame := range frames {
			messages <- frame
		}
	}

	result := <-done
	if result.err == nil && encodeErr == nil {
		if data, err := json.Marshal(CompleteUpdate{
			Type:         "complete",
			TotalPixels:  result.stats.TotalPixels,
			TotalSamples: result.stats.TotalSamples,
			ElapsedMs:    result.stats.Elapsed.Milliseconds(),
		}); err == nil {
			messages <- outboundMessage{messageType: websocket.TextMessage, data: data}
		}
	}
	close(messages)
	<-writerDone

	if result.err != nil {
		return result.err
	}
	return encodeErr
}

// writeMessages owns all writes to the connection. After the first failed
// write the client is gone; the remaining queue is drained so senders
// never block.
func writeMessages(conn *websocket.Conn, messages <-chan outboundMessage, done chan<- struct{}) {
	defer close(done)

	failed := false
	for msg := range messages {
		if failed {
			continue
		}
		if err := conn.WriteMessage(msg.messageType, msg.data); err != nil {
			failed = true
		}
	}
}

type renderResult struct {
	img   *image.RGBA
	stats renderer.RenderStats
	err   error
}

// encodeTileEvent encodes one progress update in the requested format
func encodeTileEvent(req *RenderRequest, event renderer.TileEvent) ([]outboundMessage, error) {
	if req.Format == "raw" {
		bounds := event.Bounds
		header, err := json.Marshal(FrameHeader{
			Type:           "frame",
			X:              bounds.Min.X,
			Y:              bounds.Min.Y,
			Width:          bounds.Dx(),
			Height:         bounds.Dy(),
			CompletedTiles: event.CompletedTiles,
			TotalTiles:     event.TotalTiles,
			ElapsedMs:      event.Elapsed.Milliseconds(),
		})
		if err != nil {
			return nil, err
		}

		// Copy only the completed tile's rows; the rest of the shared
		// image may still be in flight on other workers
		pixels := make([]byte, 0, bounds.Dx()*bounds.Dy()*4)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			offset := event.Image.PixOffset(bounds.Min.X, y)
			pixels = append(pixels, event.Image.Pix[offset:offset+bounds.Dx()*4]...)
		}

		return []outboundMessage{
			{messageType: websocket.TextMessage, data: header},
			{messageType: websocket.BinaryMessage, data: snappy.Encode(nil, pixels)},
		}, nil
	}

	tileData, err := imageToBase64PNG(event.Image.SubImage(event.Bounds))
	if err != nil {
		return nil, fmt.Errorf("encoding tile image: %w", err)
	}

	update, err := json.Marshal(TileUpdate{
		Type:           "tile",
		X:              event.Bounds.Min.X,
		Y:              event.Bounds.Min.Y,
		Width:          event.Bounds.Dx(),
		Height:         event.Bounds.Dy(),
		ImageData:      tileData,
		CompletedTiles: event.CompletedTiles,
		TotalTiles:     event.TotalTiles,
		ElapsedMs:      event.Elapsed.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return []outboundMessage{{messageType: websocket.TextMessage, data: update}}, nil
}

// parseRenderRequest parses and validates request parameters
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	query := r.URL.Query()

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	} else {
		req.Scene = "one-sphere"
	}

	req.Format = query.Get("format")
	if req.Format == "" {
		req.Format = "json"
	}
	if req.Format != "json" && req.Format != "raw" {
		return nil, fmt.Errorf("invalid format: %s", req.Format)
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 225, 1, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 50, 1, 10000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 50, 0, 1000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(query, "seed", 0); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
