package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/benbjohnson/clock"

	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
	"luckywheel/pkg/httpx/reply"
	"luckywheel/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type wheels interface {
	Get(ctx context.Context, userID contextx.UserID) (*wheel.Coordinator, error)
}

type eventStream interface {
	Serve(w http.ResponseWriter, r *http.Request, userID contextx.UserID, initial func() entity.Event) error
}

type WheelServer struct {
	wheels  wheels
	events  eventStream
	catalog *catalog.Catalog
	clk     clock.Clock
}

func NewWheelServer(
	wheels wheels,
	events eventStream,
	cat *catalog.Catalog,
	clk clock.Clock,
) WheelServer {
	return WheelServer{
		wheels:  wheels,
		events:  events,
		catalog: cat,
		clk:     clk,
	}
}

func (s WheelServer) getV1Wheel(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	coordinator, err := s.coordinator(ctx)
	if err != nil {
		return err
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWheel(coordinator.Snapshot(), s.clk.Now()))

	return nil
}

// postV1WheelSpin отвечает, когда известен план анимации.
// Результат приходит в событиях или в GET /v1/wheel после раскрытия.
func (s WheelServer) postV1WheelSpin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	coordinator, err := s.coordinator(ctx)
	if err != nil {
		return err
	}

	session, err := coordinator.RequestSpin(ctx)
	if err != nil {
		return fmt.Errorf("coordinator.RequestSpin: %w", err)
	}

	plan, err := session.WaitPlan(ctx)
	if err != nil {
		return fmt.Errorf("session.WaitPlan: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, newRESTSpin(session.ID, plan))

	return nil
}

func (s WheelServer) getV1WheelCatalog(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTCatalog(s.catalog))

	return nil
}

func (s WheelServer) getV1WheelEvents(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	coordinator, err := s.coordinator(ctx)
	if err != nil {
		return err
	}

	initial := func() entity.Event {
		snap := coordinator.Snapshot()

		return entity.Event{
			Type:   entity.EventState,
			UserID: snap.UserID,
			SpinID: snap.SpinID,
			State:  snap.State,
			Quota:  snap.Quota,
			Plan:   snap.Plan,
			At:     s.clk.Now(),
		}
	}

	// Ответ уже записан апгрейдером.
	if err = s.events.Serve(w, r, coordinator.UserID(), initial); err != nil {
		logger(ctx).InfoContext(ctx, "events.Serve", logx.Error(err))
	}

	return nil
}

func (s WheelServer) postV1AdminWheelReset(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID := contextx.UserID(r.PathValue("userID"))
	if userID == "" {
		return validationError{description: "userID is required"}
	}

	coordinator, err := s.wheels.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("wheels.Get: %w", err)
	}

	coordinator.ResetQuota(ctx)

	reply.JSON(ctx, w, http.StatusOK, newRESTWheel(coordinator.Snapshot(), s.clk.Now()))

	return nil
}

func (s WheelServer) coordinator(ctx context.Context) (*wheel.Coordinator, error) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("contextx.UserIDFromContext: %w", err)
	}

	coordinator, err := s.wheels.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wheels.Get: %w", err)
	}

	return coordinator, nil
}

type validationError struct {
	description string
}

func (e validationError) Error() string                 { return e.description }
func (e validationError) ErrorCode() errcodes.ErrorCode { return errcodes.ValidationError }
func (e validationError) Description() string           { return e.description }
