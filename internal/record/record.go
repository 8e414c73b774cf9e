// Package record stores rendered frames as a stream of length-delimited
// protobuf messages, one google.protobuf.Struct per tick.
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"
)

// Frame is one recorded tick.
type Frame struct {
	Tick    uint64
	Sprites []flock.Sprite
}

// Recorder appends frames to w. It does not buffer or close w.
type Recorder struct {
	w      io.Writer
	frames uint64
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Record writes the sprites rendered at tick.
func (r *Recorder) Record(tick uint64, sprites []flock.Sprite) error {
	if _, err := protodelim.MarshalTo(r.w, encodeFrame(tick, sprites)); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", tick, err)
	}
	r.frames++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() uint64 { return r.frames }

// Reader decodes frames written by a Recorder.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next frame, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (Frame, error) {
	msg := &structpb.Struct{}
	if err := protodelim.UnmarshalFrom(r.r, msg); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("failed to read frame: %w", err)
	}
	return decodeFrame(msg)
}

func encodeFrame(tick uint64, sprites []flock.Sprite) *structpb.Struct {
	agents := make([]*structpb.Value, len(sprites))
	for i, s := range sprites {
		agents[i] = structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"x":       structpb.NewNumberValue(s.Position.X),
				"y":       structpb.NewNumberValue(s.Position.Y),
				"heading": structpb.NewNumberValue(s.Heading),
				"kind":    structpb.NewStringValue(s.Kind.String()),
			},
		})
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"tick":   structpb.NewNumberValue(float64(tick)),
			"agents": structpb.NewListValue(&structpb.ListValue{Values: agents}),
		},
	}
}

func decodeFrame(msg *structpb.Struct) (Frame, error) {
	fields := msg.GetFields()
	tick, ok := fields["tick"]
	if !ok {
		return Frame{}, errors.New("frame has no tick")
	}
	values := fields["agents"].GetListValue().GetValues()

	frame := Frame{
		Tick:    uint64(tick.GetNumberValue()),
		Sprites: make([]flock.Sprite, len(values)),
	}
	for i, v := range values {
		a := v.GetStructValue().GetFields()
		kind, err := parseKind(a["kind"].GetStringValue())
		if err != nil {
			return Frame{}, fmt.Errorf("frame %d agent %d: %w", frame.Tick, i, err)
		}
		frame.Sprites[i] = flock.Sprite{
			Position: geometry.Vector2D{X: a["x"].GetNumberValue(), Y: a["y"].GetNumberValue()},
			Heading:  a["heading"].GetNumberValue(),
			Kind:     kind,
		}
	}
	return frame, nil
}

func parseKind(s string) (flock.Kind, error) {
	switch s {
	case flock.KindBuddy.String():
		return flock.KindBuddy, nil
	case flock.KindPilot.String():
		return flock.KindPilot, nil
	default:
		return 0, fmt.Errorf("unknown agent kind %q", s)
	}
}
