package obs

import (
	"context"
	"testing"
)

func TestInitTracer_NoEndpointIsNoop(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracerConfig{ServiceName: "appointly-test"})
	if err != nil {
		t.Fatalf("InitTracer error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
