// Package api is the HTTP control surface of the overlay daemon. Each route
// mirrors a button or slider of the in-page overlay.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/lo"

	"github.com/onkernel/gaze-overlay/lib/logger"
	oapi "github.com/onkernel/gaze-overlay/lib/oapi"
	"github.com/onkernel/gaze-overlay/lib/overlay"
	"github.com/onkernel/gaze-overlay/lib/settings"
	"github.com/onkernel/gaze-overlay/lib/statusfeed"
)

type ApiService struct {
	ctrl *overlay.Controller
	feed *statusfeed.Feed
}

var _ oapi.StrictServerInterface = (*ApiService)(nil)

func New(ctrl *overlay.Controller, feed *statusfeed.Feed) *ApiService {
	return &ApiService{ctrl: ctrl, feed: feed}
}

// HandleStatusSocket streams overlay snapshots over a websocket. It sits
// outside the OpenAPI surface and is mounted next to the generated routes.
func (s *ApiService) HandleStatusSocket(w http.ResponseWriter, r *http.Request) {
	s.feed.HandleWebSocket(w, r)
}

func (s *ApiService) GetHealth(ctx context.Context, _ oapi.GetHealthRequestObject) (oapi.GetHealthResponseObject, error) {
	return oapi.GetHealth200JSONResponse{Status: "ok"}, nil
}

func (s *ApiService) GetOverlayStatus(ctx context.Context, _ oapi.GetOverlayStatusRequestObject) (oapi.GetOverlayStatusResponseObject, error) {
	return oapi.GetOverlayStatus200JSONResponse(toSnapshot(s.ctrl.Snapshot())), nil
}

func (s *ApiService) GetOverlaySettings(ctx context.Context, _ oapi.GetOverlaySettingsRequestObject) (oapi.GetOverlaySettingsResponseObject, error) {
	return oapi.GetOverlaySettings200JSONResponse(toSettings(s.ctrl.Snapshot().Settings)), nil
}

// UpdateOverlaySettings applies the sensitivities present in the body.
// Out-of-range values are clamped, not rejected.
func (s *ApiService) UpdateOverlaySettings(ctx context.Context, req oapi.UpdateOverlaySettingsRequestObject) (oapi.UpdateOverlaySettingsResponseObject, error) {
	log := logger.FromContext(ctx)
	if req.Body == nil || (req.Body.MoveSensitivity == nil && req.Body.BlinkSensitivity == nil) {
		return oapi.UpdateOverlaySettings400JSONResponse{BadRequestErrorJSONResponse: oapi.BadRequestErrorJSONResponse{
			Message: "moveSensitivity or blinkSensitivity is required",
		}}, nil
	}

	current := s.ctrl.Snapshot().Settings
	var err error
	if req.Body.MoveSensitivity != nil {
		current, err = s.ctrl.SetMoveSensitivity(ctx, *req.Body.MoveSensitivity)
	}
	if err == nil && req.Body.BlinkSensitivity != nil {
		current, err = s.ctrl.SetBlinkSensitivity(ctx, *req.Body.BlinkSensitivity)
	}
	switch {
	case err == nil:
		return oapi.UpdateOverlaySettings200JSONResponse(toSettings(current)), nil
	case errors.Is(err, overlay.ErrClosed):
		return oapi.UpdateOverlaySettings503JSONResponse{ServiceUnavailableErrorJSONResponse: unavailable(err)}, nil
	default:
		log.Error("failed to update settings", "err", err)
		return oapi.UpdateOverlaySettings500JSONResponse{InternalErrorJSONResponse: oapi.InternalErrorJSONResponse{
			Message: "failed to update settings",
		}}, nil
	}
}

func (s *ApiService) ToggleTracking(ctx context.Context, _ oapi.ToggleTrackingRequestObject) (oapi.ToggleTrackingResponseObject, error) {
	enabled, err := s.ctrl.ToggleTracking(ctx)
	switch {
	case err == nil:
		return oapi.ToggleTracking200JSONResponse{TrackingEnabled: enabled}, nil
	case errors.Is(err, overlay.ErrClosed):
		return oapi.ToggleTracking503JSONResponse{ServiceUnavailableErrorJSONResponse: unavailable(err)}, nil
	default:
		logger.FromContext(ctx).Error("failed to toggle tracking", "err", err)
		return oapi.ToggleTracking500JSONResponse{InternalErrorJSONResponse: oapi.InternalErrorJSONResponse{
			Message: "failed to toggle tracking",
		}}, nil
	}
}

func (s *ApiService) TogglePanel(ctx context.Context, _ oapi.TogglePanelRequestObject) (oapi.TogglePanelResponseObject, error) {
	visible, err := s.ctrl.TogglePanel(ctx)
	switch {
	case err == nil:
		return oapi.TogglePanel200JSONResponse{PanelVisible: visible}, nil
	case errors.Is(err, overlay.ErrClosed):
		return oapi.TogglePanel503JSONResponse{ServiceUnavailableErrorJSONResponse: unavailable(err)}, nil
	default:
		logger.FromContext(ctx).Error("failed to toggle panel", "err", err)
		return oapi.TogglePanel500JSONResponse{InternalErrorJSONResponse: oapi.InternalErrorJSONResponse{
			Message: "failed to toggle panel",
		}}, nil
	}
}

// ActivateOverlay presses the toggle button once or twice.
func (s *ApiService) ActivateOverlay(ctx context.Context, req oapi.ActivateOverlayRequestObject) (oapi.ActivateOverlayResponseObject, error) {
	if req.Body == nil {
		return oapi.ActivateOverlay400JSONResponse{BadRequestErrorJSONResponse: oapi.BadRequestErrorJSONResponse{Message: "request body is required"}}, nil
	}
	err := s.ctrl.Activate(ctx, req.Body.Clicks)
	switch {
	case err == nil:
		return oapi.ActivateOverlay200JSONResponse(toSnapshot(s.ctrl.Snapshot())), nil
	case errors.Is(err, overlay.ErrInvalidActivation):
		return oapi.ActivateOverlay400JSONResponse{BadRequestErrorJSONResponse: oapi.BadRequestErrorJSONResponse{Message: err.Error()}}, nil
	case errors.Is(err, overlay.ErrClosed):
		return oapi.ActivateOverlay503JSONResponse{ServiceUnavailableErrorJSONResponse: unavailable(err)}, nil
	default:
		logger.FromContext(ctx).Error("failed to activate overlay", "err", err)
		return oapi.ActivateOverlay500JSONResponse{InternalErrorJSONResponse: oapi.InternalErrorJSONResponse{
			Message: "failed to activate overlay",
		}}, nil
	}
}

func (s *ApiService) ScrollUp(ctx context.Context, _ oapi.ScrollUpRequestObject) (oapi.ScrollUpResponseObject, error) {
	err := s.ctrl.ScrollUp(ctx)
	switch {
	case err == nil:
		return oapi.ScrollUp204Response{}, nil
	case errors.Is(err, overlay.ErrClosed):
		return oapi.ScrollUp503JSONResponse{ServiceUnavailableErrorJSONResponse: unavailable(err)}, nil
	default:
		logger.FromContext(ctx).Error("failed to scroll up", "err", err)
		return oapi.ScrollUp500JSONResponse{InternalErrorJSONResponse: oapi.InternalErrorJSONResponse{Message: "failed to scroll up"}}, nil
	}
}

func (s *ApiService) ScrollDown(ctx context.Context, _ oapi.ScrollDownRequestObject) (oapi.ScrollDownResponseObject, error) {
	err := s.ctrl.ScrollDown(ctx)
	switch {
	case err == nil:
		return oapi.ScrollDown204Response{}, nil
	case errors.Is(err, overlay.ErrClosed):
		return oapi.ScrollDown503JSONResponse{ServiceUnavailableErrorJSONResponse: unavailable(err)}, nil
	default:
		logger.FromContext(ctx).Error("failed to scroll down", "err", err)
		return oapi.ScrollDown500JSONResponse{InternalErrorJSONResponse: oapi.InternalErrorJSONResponse{Message: "failed to scroll down"}}, nil
	}
}

// NavigateOverlay follows a link the way an intercepted click on it would.
func (s *ApiService) NavigateOverlay(ctx context.Context, req oapi.NavigateOverlayRequestObject) (oapi.NavigateOverlayResponseObject, error) {
	if req.Body == nil {
		return oapi.NavigateOverlay400JSONResponse{BadRequestErrorJSONResponse: oapi.BadRequestErrorJSONResponse{Message: "request body is required"}}, nil
	}
	kind, err := s.ctrl.HandleNavigation(ctx, req.Body.Href)
	switch {
	case err == nil:
		return oapi.NavigateOverlay200JSONResponse{Kind: oapi.NavigateResultKind(kind)}, nil
	case errors.Is(err, overlay.ErrInvalidNavigateHref):
		return oapi.NavigateOverlay400JSONResponse{BadRequestErrorJSONResponse: oapi.BadRequestErrorJSONResponse{Message: err.Error()}}, nil
	case errors.Is(err, overlay.ErrClosed):
		return oapi.NavigateOverlay503JSONResponse{ServiceUnavailableErrorJSONResponse: unavailable(err)}, nil
	default:
		logger.FromContext(ctx).Error("failed to navigate", "href", req.Body.Href, "err", err)
		return oapi.NavigateOverlay500JSONResponse{InternalErrorJSONResponse: oapi.InternalErrorJSONResponse{Message: "failed to navigate"}}, nil
	}
}

// Shutdown stops the overlay and disconnects status feed clients.
func (s *ApiService) Shutdown(ctx context.Context) error {
	s.feed.Close()
	return s.ctrl.Shutdown(ctx)
}

func unavailable(err error) oapi.ServiceUnavailableErrorJSONResponse {
	return oapi.ServiceUnavailableErrorJSONResponse{Message: err.Error()}
}

func toSettings(s settings.Settings) oapi.OverlaySettings {
	return oapi.OverlaySettings{
		Enabled:          s.Enabled,
		MoveSensitivity:  s.MoveSensitivity,
		BlinkSensitivity: s.BlinkSensitivity,
		ControlsVisible:  s.ControlsVisible,
	}
}

func toSnapshot(snap overlay.Snapshot) oapi.OverlaySnapshot {
	out := oapi.OverlaySnapshot{
		Id:    snap.ID,
		State: snap.State,
		Indicator: oapi.StatusIndicator{
			Visible:    snap.Indicator.Visible,
			Color:      string(snap.Indicator.Color),
			Label:      snap.Indicator.Label,
			Pulse:      snap.Indicator.Pulse,
			Persistent: snap.Indicator.Persistent,
		},
		TrackingEnabled: snap.TrackingEnabled,
		PanelVisible:    snap.PanelVisible,
		Settings:        toSettings(snap.Settings),
		Cursor:          oapi.Point{X: snap.Cursor.X, Y: snap.Cursor.Y},
		Viewport:        oapi.Viewport{Width: snap.Viewport.Width, Height: snap.Viewport.Height},
		FaceDetected:    snap.FaceDetected,
		UpdatedAt:       snap.UpdatedAt,
	}
	if d := snap.Debug; d != nil {
		out.Debug = &oapi.GazeDebug{
			LeftEyeHeight:  d.LeftEyeHeight,
			RightEyeHeight: d.RightEyeHeight,
			EyeRatio:       d.EyeRatio,
			Threshold:      d.Threshold,
		}
	}
	if c := snap.LastClick; c != nil {
		out.LastClick = &oapi.ClickOutcome{
			Accepted: c.Accepted,
			Method:   string(c.Method),
			Probe:    lo.EmptyableToPtr(c.Probe),
			At:       c.At,
		}
		if t := c.Target; t != nil {
			out.LastClick.Target = &oapi.ClickTarget{
				Tag:  t.Tag,
				Id:   lo.EmptyableToPtr(t.ID),
				Href: lo.EmptyableToPtr(t.Href),
			}
		}
	}
	return out
}
