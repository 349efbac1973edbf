//go:build integration

package metrics

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	itOrg    = "evrange"
	itBucket = "decisions"
	itToken  = "it-token"
)

// startInflux starts an InfluxDB 2.7 container initialised with itOrg,
// itBucket and itToken.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "evrange",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "evrange-password",
			"DOCKER_INFLUXDB_INIT_ORG":         itOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      itBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": itToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestInfluxSink_Container(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	cont, url := startInflux(ctx, t)
	defer cont.Terminate(ctx) //nolint:errcheck

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: url, Token: itToken, Org: itOrg, Bucket: itBucket})
	influx, ok := sink.(*InfluxSink)
	require.True(t, ok, "expected a live influx sink, got %T", sink)
	defer influx.Close()

	now := time.Now()
	require.NoError(t, influx.RecordDecision(speedReductionEvent(now)))
	require.NoError(t, influx.RecordDecision(reachableEvent(now.Add(time.Second))))

	client := influxdb2.NewClient(url, itToken)
	defer client.Close()
	flux := fmt.Sprintf(`from(bucket:"%s")
  |> range(start: -5m)
  |> filter(fn: (r) => r._measurement == "route_decision" and r._field == "estimated_range_km")`, itBucket)
	res, err := client.QueryAPI(itOrg).Query(ctx, flux)
	require.NoError(t, err)
	defer res.Close()
	count := 0
	for res.Next() {
		count++
	}
	require.NoError(t, res.Err())
	require.Equal(t, 2, count)
}
