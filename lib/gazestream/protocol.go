package gazestream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/onkernel/gaze-overlay/lib/settings"
)

// ErrMalformed is returned for inbound frames that are not JSON or carry
// none of the gaze, wink and face_detected fields.
var ErrMalformed = errors.New("malformed stream message")

// Debug carries the sensing process's eye measurements when it runs in
// diagnostic mode.
type Debug struct {
	LeftEyeHeight  float64 `json:"leftEyeHeight"`
	RightEyeHeight float64 `json:"rightEyeHeight"`
	EyeRatio       float64 `json:"eyeRatio"`
	Threshold      float64 `json:"threshold"`
}

// Sample is one normalized gaze estimate. X and Y are expected in [0,1].
type Sample struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Debug *Debug  `json:"debug,omitempty"`
}

// Message is a decoded inbound frame. Any subset of the fields may be set.
// FaceDetected is nil when the frame does not report face presence.
type Message struct {
	Sample       *Sample
	Wink         bool
	FaceDetected *bool
}

type inboundGaze struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type inboundFrame struct {
	Gaze         *inboundGaze `json:"gaze"`
	Debug        *Debug       `json:"debug"`
	Wink         *bool        `json:"wink"`
	FaceDetected *bool        `json:"face_detected"`
}

// Decode parses one inbound frame.
func Decode(data []byte) (Message, error) {
	var f inboundFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if f.Gaze == nil && f.Wink == nil && f.FaceDetected == nil {
		return Message{}, ErrMalformed
	}

	msg := Message{FaceDetected: f.FaceDetected}
	if f.Gaze != nil && f.Gaze.X != nil && f.Gaze.Y != nil {
		msg.Sample = &Sample{
			X:     *f.Gaze.X,
			Y:     *f.Gaze.Y,
			Debug: f.Debug,
		}
	}
	if f.Wink != nil {
		msg.Wink = *f.Wink
	}
	if msg.Sample == nil && f.Wink == nil && f.FaceDetected == nil {
		// gaze present but without coordinates
		return Message{}, ErrMalformed
	}
	return msg, nil
}

type outboundSettings struct {
	Blink float64 `json:"blink"`
	Move  float64 `json:"move"`
}

type outboundFrame struct {
	Settings outboundSettings `json:"settings"`
}

// EncodeSettings renders the subset of settings the sensing process uses.
func EncodeSettings(s settings.Settings) ([]byte, error) {
	s = s.Clamp()
	return json.Marshal(outboundFrame{Settings: outboundSettings{
		Blink: s.BlinkSensitivity,
		Move:  s.MoveSensitivity,
	}})
}
