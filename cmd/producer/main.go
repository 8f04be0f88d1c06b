package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	kafkaBroker = "localhost:9092"
	topic       = "frame-stream"

	frameRows = 64
	frameCols = 64
)

// FramePayload matches the wire format PixelLens expects.
type FramePayload struct {
	FrameID string    `json:"frame_id"`
	Source  string    `json:"source"`
	DType   string    `json:"dtype"`
	Dims    []int     `json:"dims"`
	Samples []float64 `json:"samples"`
}

func main() {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(kafkaBroker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Fatalf("Error closing kafka writer: %v", err)
		}
	}()
	log.Printf("Starting sample frame producer for topic: %s on broker: %s", topic, kafkaBroker)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		log.Println("Shutdown signal received, stopping producer...")
		cancel()
	}()

	// Produce frames periodically
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seq := 0

	for {
		select {
		case <-ticker.C:
			seq++
			payload := generateFrame(rng, seq)
			payloadBytes, err := json.Marshal(payload)
			if err != nil {
				log.Printf("Error marshalling frame: %v", err)
				continue
			}

			err = writer.WriteMessages(ctx, kafka.Message{Value: payloadBytes})
			if err != nil {
				if ctx.Err() != nil { // Check if context was cancelled (shutdown)
					log.Println("Context cancelled, exiting frame loop.")
					return
				}
				log.Printf("Error writing frame: %v", err)
			} else {
				log.Printf("Produced frame %s (%d samples)", payload.FrameID, len(payload.Samples))
			}

		case <-ctx.Done():
			log.Println("Producer stopped.")
			return
		}
	}
}

// generateFrame builds one synthetic uint8 frame with Gaussian-ish intensity.
func generateFrame(rng *rand.Rand, seq int) FramePayload {
	samples := make([]float64, frameRows*frameCols)
	for i := range samples {
		v := 128 + rng.NormFloat64()*30
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		samples[i] = float64(int(v))
	}

	return FramePayload{
		FrameID: fmt.Sprintf("frame-%06d", seq),
		Source:  "camera-0",
		DType:   "uint8",
		Dims:    []int{frameRows, frameCols},
		Samples: samples,
	}
}
