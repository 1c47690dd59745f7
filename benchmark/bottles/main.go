package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"liyu1981.xyz/water-intake-service/pkg/config"
	pb "liyu1981.xyz/water-intake-service/pkg/grpc/hydration_service"
	"liyu1981.xyz/water-intake-service/pkg/ingest"
)

var maxBottles int = 500
var samplesPerBottle int = 20
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"
var brokerURL string = "tcp://127.0.0.1:1883"
var weightTopic string = "/weight_change"

var grpcClient pb.HydrationServiceClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

type healthz struct {
	Ingest struct {
		State string       `json:"state"`
		Stats ingest.Stats `json:"stats"`
	} `json:"ingest"`
}

func main() {
	sensorIDs := make([]string, maxBottles)
	for i := range maxBottles {
		sensorIDs[i] = "bench-" + uuid.NewString()
	}
	fmt.Printf("generated %v sensor IDs\n", maxBottles)

	before := mustHealthz()
	fmt.Printf("http server verified, ingest state=%v\n", before.Ingest.State)

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = pb.NewHydrationServiceClient(conn)

	fmt.Printf("gRPC client created\n")

	publisher := ingest.NewMQTTTransport(config.MQTTConfig{
		Broker:         brokerURL,
		ConnectTimeout: 10 * time.Second,
	}, "water-intake-bench-"+uuid.NewString()[:8])
	if err := publisher.Connect(context.Background()); err != nil {
		log.Fatal("Failed to connect to broker:", err)
	}
	defer publisher.Close()

	fmt.Printf("broker connected\n")

	var startTime time.Time
	var usedTime time.Duration

	userIDs := make([]uint, maxBottles)
	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxBottles {
		wg.Add(1)
		go func() {
			userIDs[i] = createUser(sensorIDs[i])
			fmt.Printf("\rcreated user for bottle %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rcreated %v users: used time=%v seconds, throughput=%v action/second\n",
		maxBottles, usedTime.Seconds(), float64(maxBottles)/usedTime.Seconds(),
	)

	// every bottle publishes a pick up, samplesPerBottle weights and a put down
	published := maxBottles * (samplesPerBottle + 2)
	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxBottles {
		wg.Add(1)
		go func() {
			simulateBottle(publisher, sensorIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rpublished %v messages: used time=%v seconds, throughput=%v msg/second\n",
		published, usedTime.Seconds(), float64(published)/usedTime.Seconds(),
	)

	target := before.Ingest.Stats.Total + uint64(published)
	deadline := time.Now().Add(2 * time.Minute)
	for {
		h := mustHealthz()
		fmt.Printf("\rprocessed %v/%v", h.Ingest.Stats.Total-before.Ingest.Stats.Total, published)
		if h.Ingest.Stats.Total >= target {
			break
		}
		if time.Now().After(deadline) {
			fmt.Printf("\ngave up waiting, stats=%v\n", h.Ingest.Stats.ByKind)
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\ringested %v messages: used time=%v seconds, throughput=%v msg/second\n",
		published, usedTime.Seconds(), float64(published)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxBottles {
		wg.Add(1)
		go func() {
			readIntake(userIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rread intake for %v users: used time=%v seconds, throughput=%v action/second\n",
		maxBottles, usedTime.Seconds(), float64(maxBottles)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func mustHealthz() healthz {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	var h healthz
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		log.Fatal("Unexpected healthz body:", err)
	}
	return h
}

func createUser(sensorID string) uint {
	payload := map[string]any{
		"name":          "bench",
		"sensor_id":     sensorID,
		"bottle_weight": 250,
		"daily_goal":    2000,
	}
	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(fmt.Sprintf("http://%s/api/v1/users", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		panic(fmt.Sprintf("create user for %s: status %d", sensorID, resp.StatusCode))
	}

	var user struct {
		ID uint `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		panic(err)
	}
	return user.ID
}

func publish(publisher *ingest.MQTTTransport, sensorID, dataType, value string) {
	payload := fmt.Sprintf("%s|%s|%s", sensorID, dataType, value)
	if err := publisher.Publish(context.Background(), weightTopic, 1, []byte(payload)); err != nil {
		fmt.Printf("\nerror: %v\n", err)
	}
}

func simulateBottle(publisher *ingest.MQTTTransport, sensorID string) {
	publish(publisher, sensorID, ingest.DataTypeIsPickedUp, "1")
	weight := 750.0
	for range samplesPerBottle {
		weight = math.Max(250, weight-rndFloat64(0, 30, 2))
		publish(publisher, sensorID, ingest.DataTypeWeight, fmt.Sprintf("%.2f", weight))
	}
	publish(publisher, sensorID, ingest.DataTypeIsPickedUp, "0")
}

func readIntake(userID uint) {
	if flipCoin() {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/user/%d/today-water-intake", httpHostPort, userID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp.StatusCode)
		}
	} else {
		resp, err := grpcClient.GetIntake(context.Background(), &pb.GetIntakeRequest{
			UserId: int64(userID),
			Range:  pb.RangeToday,
		})
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		if !resp.Status.Success {
			fmt.Printf("\nresponse success = false: %v\n", resp)
		}
	}
}
