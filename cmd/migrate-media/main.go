// Command migrate-media rewrites a posts document so every media entry
// uses the canonical {url, description} object shape. The read path
// normalizes legacy bare-string entries on the fly, so this migration
// is optional; running it once just retires the old shape from the
// stored document for good.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"carnet-api/internal/models"
	"carnet-api/internal/services"
	"carnet-api/internal/storage/gcs"
)

func main() {
	logger := log.New(os.Stdout, "[MediaMigration] ", log.LstdFlags)

	bucket := flag.String("bucket", "", "GCS bucket holding the posts document (required)")
	object := flag.String("object", "db.json", "Object key of the posts document")
	credentials := flag.String("credentials", "", "Path to a service-account JSON file (optional, defaults to ADC)")
	dryRun := flag.Bool("dry-run", false, "Report legacy entries without rewriting the document")
	flag.Parse()

	if *bucket == "" {
		logger.Fatal("-bucket is required")
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if *credentials != "" {
		opts = append(opts, option.WithCredentialsFile(*credentials))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		logger.Fatalf("Failed to create storage client: %v", err)
	}
	defer client.Close()

	blobs := gcs.New(client, *bucket)
	docs := services.NewDocumentStore(blobs)

	// Count legacy entries from the raw document before the decoder
	// normalizes them away.
	raw, err := blobs.Fetch(ctx, *object)
	if err != nil {
		logger.Fatalf("Failed to fetch %s: %v", *object, err)
	}
	legacy, total, err := countLegacyEntries(raw)
	if err != nil {
		logger.Fatalf("Failed to inspect %s: %v", *object, err)
	}

	logger.Printf("%s: %d media entries, %d in the legacy string shape", *object, total, legacy)

	if legacy == 0 {
		logger.Println("Nothing to migrate")
		return
	}
	if *dryRun {
		logger.Printf("[DRY] Would rewrite %s with %d normalized entries", *object, legacy)
		return
	}

	// Decoding into the domain model normalizes every entry; saving
	// writes the canonical shape back.
	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		logger.Fatalf("Failed to decode %s: %v", *object, err)
	}
	if err := docs.Save(ctx, *object, posts); err != nil {
		logger.Fatalf("Failed to save %s: %v", *object, err)
	}

	logger.Printf("Rewrote %s: %d legacy entries normalized", *object, legacy)
}

// Scans the raw document and counts media entries still stored as bare
// strings.
func countLegacyEntries(raw []byte) (legacy, total int, err error) {
	var posts []struct {
		Media []json.RawMessage `json:"media"`
	}
	if err := json.Unmarshal(raw, &posts); err != nil {
		return 0, 0, err
	}

	for _, post := range posts {
		for _, entry := range post.Media {
			total++
			if len(entry) > 0 && entry[0] == '"' {
				legacy++
			}
		}
	}
	return legacy, total, nil
}
