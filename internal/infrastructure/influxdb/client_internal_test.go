package influxdb

import (
	"errors"
	"testing"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/config"
)

func TestClientOptions(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.InfluxDBConfig
		wantBatch uint
		wantFlush uint
	}{
		{"configured", config.InfluxDBConfig{BatchSize: 20, FlushInterval: 2}, 20, 2000},
		{"defaults", config.InfluxDBConfig{}, defaultBatchSize, 10000},
		{"negative falls back", config.InfluxDBConfig{BatchSize: -1, FlushInterval: -5}, defaultBatchSize, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := clientOptions(tt.cfg)
			if got := opts.BatchSize(); got != tt.wantBatch {
				t.Errorf("BatchSize() = %d, want %d", got, tt.wantBatch)
			}
			if got := opts.FlushInterval(); got != tt.wantFlush {
				t.Errorf("FlushInterval() = %d, want %d", got, tt.wantFlush)
			}
		})
	}
}

func TestForwardWriteErrors(t *testing.T) {
	c := &Client{}
	errs := make(chan error, 2)
	var got []error
	c.SetOnError(func(err error) { got = append(got, err) })

	errs <- errTest
	close(errs)
	c.forwardWriteErrors(errs)

	if len(got) != 1 {
		t.Fatalf("callback calls = %d, want 1", len(got))
	}
	if !errors.Is(got[0], ErrWriteFailed) || !errors.Is(got[0], errTest) {
		t.Errorf("forwarded error = %v, want ErrWriteFailed wrapping the cause", got[0])
	}

	// A cleared callback drops errors.
	c.SetOnError(nil)
	errs = make(chan error, 1)
	errs <- errTest
	close(errs)
	c.forwardWriteErrors(errs)
	if len(got) != 1 {
		t.Errorf("callback calls after clear = %d, want 1", len(got))
	}
}

var errTest = errors.New("partial write")
