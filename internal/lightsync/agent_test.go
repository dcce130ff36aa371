package lightsync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/SymenMulders/cputemp2rgb/internal/colormap"
	"github.com/SymenMulders/cputemp2rgb/pkg/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSource struct {
	temp float64
	err  error
}

func (f *fakeSource) CPUTemperature(ctx context.Context) (float64, error) {
	return f.temp, f.err
}

type fakeController struct {
	connected bool
	colors    [][3]uint8
	setErr    error
	closed    bool
}

func (f *fakeController) Connect(ctx context.Context) error {
	f.connected = true
	return nil
}

func (f *fakeController) Clear() error {
	return f.SetColor(0, 0, 0)
}

func (f *fakeController) SetColor(red, green, blue uint8) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.colors = append(f.colors, [3]uint8{red, green, blue})
	return nil
}

func (f *fakeController) IsConnected() bool { return f.connected }

func (f *fakeController) Close() error {
	f.closed = true
	return nil
}

func TestUpdate_PushesMappedColor(t *testing.T) {
	cfg := config.NewConfig()
	source := &fakeSource{temp: 55.0}
	controller := &fakeController{}
	agent := NewAgent(source, controller, nil, cfg, testLogger())

	if err := agent.update(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(controller.colors) != 1 {
		t.Fatalf("Expected 1 color push, got %d", len(controller.colors))
	}

	want := colormap.Map(55.0, cfg.Colorshift)
	got := controller.colors[0]
	if got != [3]uint8{want.Red, want.Green, want.Blue} {
		t.Errorf("Expected color %+v, got %v", want, got)
	}
}

func TestUpdate_AppliesColorshift(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Colorshift = 10.0
	source := &fakeSource{temp: 55.0}
	controller := &fakeController{}
	agent := NewAgent(source, controller, nil, cfg, testLogger())

	if err := agent.update(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := colormap.Map(55.0, 10.0)
	got := controller.colors[0]
	if got != [3]uint8{want.Red, want.Green, want.Blue} {
		t.Errorf("Expected shifted color %+v, got %v", want, got)
	}
}

func TestUpdate_SamplerErrorIsFatal(t *testing.T) {
	cfg := config.NewConfig()
	source := &fakeSource{err: errors.New("sensors unreadable")}
	agent := NewAgent(source, &fakeController{}, nil, cfg, testLogger())

	if err := agent.update(context.Background()); err == nil {
		t.Error("Expected sampler error to propagate")
	}
}

func TestUpdate_ControllerErrorIsFatal(t *testing.T) {
	cfg := config.NewConfig()
	controller := &fakeController{setErr: errors.New("connection reset")}
	agent := NewAgent(&fakeSource{temp: 60}, controller, nil, cfg, testLogger())

	if err := agent.update(context.Background()); err == nil {
		t.Error("Expected controller error to propagate")
	}
}

func TestStart_ClearsDeviceThenUpdates(t *testing.T) {
	cfg := config.NewConfig()
	source := &fakeSource{temp: 42.0}
	controller := &fakeController{}
	agent := NewAgent(source, controller, nil, cfg, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // loop exits right after the first update

	if err := agent.Start(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !controller.connected {
		t.Error("Expected controller to be connected")
	}
	if len(controller.colors) != 2 {
		t.Fatalf("Expected clear + one update, got %d pushes", len(controller.colors))
	}
	if controller.colors[0] != [3]uint8{0, 0, 0} {
		t.Errorf("Expected first push to clear the device, got %v", controller.colors[0])
	}
}

func TestStop_ClosesController(t *testing.T) {
	cfg := config.NewConfig()
	controller := &fakeController{}
	agent := NewAgent(&fakeSource{temp: 42}, controller, nil, cfg, testLogger())

	if err := agent.Stop(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !controller.closed {
		t.Error("Expected controller to be closed")
	}
}
