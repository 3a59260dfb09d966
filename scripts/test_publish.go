//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tactical-map/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	lat := flag.Float64("lat", -19.9245, "marker latitude")
	lng := flag.Float64("lng", -43.9352, "marker longitude")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Тестовый интент (Praça Sete, Belo Horizonte)
	intent := domain.MarkerCreated(domain.CustomMarker{
		ID:    uuid.NewString(),
		Point: domain.GeoPoint{Lat: *lat, Lng: *lng},
		Title: "Ponto de teste",
		Icon:  domain.IconFlag,
		Color: domain.ColorRed,
	})
	intent.SessionID = "test-publish"
	intent.At = time.Now().UTC()

	data, err := json.Marshal(intent)
	if err != nil {
		log.Fatalf("Failed to marshal intent: %v", err)
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamIntents,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish intent: %v", err)
	}

	fmt.Printf("Intent published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamIntents)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Marker ID: %s\n", intent.TargetID)
	fmt.Printf("   Coordinates: %.6f, %.6f\n", *lat, *lng)

	fmt.Printf("\nWaiting for label in %s...\n", domain.StreamLabels)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for label")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{domain.StreamLabels, "0"},
				Count:   50,
				Block:   -1,
			}).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var label domain.LabelEvent
					if err := json.Unmarshal([]byte(dataStr), &label); err != nil {
						continue
					}

					if label.TargetID == intent.TargetID {
						fmt.Printf("\nLabel received\n")
						pretty, _ := json.MarshalIndent(label, "", "  ")
						fmt.Printf("%s\n", pretty)
						return
					}
				}
			}
		}
	}
}
