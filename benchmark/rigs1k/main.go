package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/vigilant/pkg/fleet"
	vigilantGrpc "liyu1981.xyz/vigilant/pkg/grpc"
)

var (
	maxRigs      = pflag.Int("rigs", 1000, "number of simulated rigs")
	httpHostPort = pflag.String("http", "127.0.0.1:8000", "HTTP server address")
	grpcHostPort = pflag.String("grpc", "127.0.0.1:50051", "gRPC server address, empty to use HTTP only")
	apiKey       = pflag.String("api-key", "", "API key of the server")
)

var grpcClient *vigilantGrpc.Client

var (
	rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rndMu sync.Mutex

	failures atomic.Int64
)

func main() {
	pflag.Parse()

	rigIDs := make([]string, *maxRigs)
	for i := range *maxRigs {
		rigIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v rig IDs\n", *maxRigs)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", *httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}
	fmt.Printf("http server verified\n")

	if *grpcHostPort != "" {
		grpcClient, err = vigilantGrpc.NewClient(*grpcHostPort, *apiKey)
		if err != nil {
			log.Fatal("Failed to connect to gRPC server:", err)
		}
		defer grpcClient.Close()
		fmt.Printf("gRPC client created\n")
	}

	startTime := time.Now()
	wg := sync.WaitGroup{}
	for i := range *maxRigs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			submitHeartbeat(rigIDs[i])
		}()
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	fmt.Printf(
		"first contact for %v rigs: used time=%v seconds, throughput=%v heartbeat/second\n",
		*maxRigs, usedTime.Seconds(), float64(*maxRigs)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range *maxRigs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doActions(rigIDs[i])
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\ndid actions for %v rigs: used time=%v seconds, throughput=%v action/second, failures=%v\n",
		*maxRigs, usedTime.Seconds(), float64(*maxRigs*3)/usedTime.Seconds(), failures.Load(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return grpcClient == nil || rnd.Int31n(2) == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func fail(format string, args ...any) {
	failures.Add(1)
	fmt.Printf("\n"+format+"\n", args...)
}

func submitHeartbeat(rigID string) {
	report := map[string]any{
		"rig_id":         rigID,
		"hostname":       "bench-" + rigID[:8],
		"timestamp":      fleet.FormatTimestamp(time.Now()),
		"cpu_percent":    rndFloat64(0, 100, 1),
		"memory_percent": rndFloat64(0, 100, 1),
		"disk_percent":   rndFloat64(0, 100, 1),
	}

	if flipCoin() {
		jsonData, _ := json.Marshal(report)
		req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/api/heartbeat", *httpHostPort), bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", fleet.BearerToken(*apiKey))
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fail("error: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fail("heartbeat status %v: %s", resp.StatusCode, body)
		}
	} else {
		msg, err := structpb.NewStruct(report)
		if err != nil {
			fail("error: %v", err)
			return
		}
		if _, err := grpcClient.SubmitHeartbeat(context.Background(), msg); err != nil {
			fail("error: %v", err)
		}
	}
}

func getRig(rigID string) {
	if flipCoin() {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/rigs/%s", *httpHostPort, rigID))
		if err != nil {
			fail("error: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fail("get rig status %v", resp.StatusCode)
		}
	} else {
		if _, err := grpcClient.GetRig(context.Background(), wrapperspb.String(rigID)); err != nil {
			fail("error: %v", err)
		}
	}
}

func listHeartbeats(rigID string) {
	resp, err := http.Get(fmt.Sprintf("http://%s/api/rigs/%s/heartbeats?limit=10", *httpHostPort, rigID))
	if err != nil {
		fail("error: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fail("list heartbeats status %v", resp.StatusCode)
	}
}

func doActions(rigID string) {
	actions := []func(string){submitHeartbeat, getRig, listHeartbeats}
	actionNames := []string{"SubmitHeartbeat", "GetRig", "ListHeartbeats"}

	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	rndMu.Unlock()

	for index, action := range actions {
		action(rigID)
		fmt.Printf("\rexecuted action %v for rig %v", actionNames[index], rigID)

		rndMu.Lock()
		pause := time.Duration(100+rnd.Int31n(1000)) * time.Millisecond
		rndMu.Unlock()
		time.Sleep(pause)
	}
}
