// Package main extracts georeferenced camera imagery from a ROS bag for
// Agisoft Metashape. It writes per-camera JPEG sequences, a camera reference
// CSV per camera for Metashape's reference import, and a mission map figure
// summarising the vehicle's path.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/laurenkolinger/bag-metashape-export/internal/bag"
	"github.com/laurenkolinger/bag-metashape-export/internal/events"
	"github.com/laurenkolinger/bag-metashape-export/internal/extract"
	"github.com/laurenkolinger/bag-metashape-export/internal/metashape"
	"github.com/laurenkolinger/bag-metashape-export/internal/pose"
	"github.com/laurenkolinger/bag-metashape-export/internal/report"
	"github.com/laurenkolinger/bag-metashape-export/internal/version"
)

// eventModule is the module name recorded in the operational event log.
const eventModule = "bag_metashape_export"

// defaultPoseTopic carries the vehicle's navigation solution.
const defaultPoseTopic = "/pose"

func main() {
	poseTopic := flag.String("pose-topic", defaultPoseTopic, "Bag topic carrying the navigation solution")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <bag_file> [output_dir]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract georeferenced images from a ROS bag for Metashape:\n")
		fmt.Fprintf(os.Stderr, "  1. Read the pose stream and build an interpolation table\n")
		fmt.Fprintf(os.Stderr, "  2. Extract each camera's frames as numbered JPEGs\n")
		fmt.Fprintf(os.Stderr, "  3. Interpolate a pose onto every frame timestamp\n")
		fmt.Fprintf(os.Stderr, "  4. Write a <camera>_reference.csv per camera\n")
		fmt.Fprintf(os.Stderr, "  5. Render mission_map.png with path and statistics\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s /data/mission_042.bag\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s /data/mission_042.bag ./exports\n", os.Args[0])
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: bag file is required")
		flag.Usage()
		os.Exit(1)
	}
	bagPath := flag.Arg(0)
	outputDir := "."
	if flag.NArg() >= 2 {
		outputDir = flag.Arg(1)
	}

	if _, err := os.Stat(bagPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: bag file not found: %s\n", bagPath)
		os.Exit(1)
	}

	startTime := time.Now()
	bagName := strings.TrimSuffix(filepath.Base(bagPath), filepath.Ext(bagPath))
	outputBase := filepath.Join(outputDir, bagName)
	if err := os.MkdirAll(outputBase, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Event logging is best-effort: the export works identically without it.
	logger, _ := events.FromEnv()
	defer logger.Close()
	if _, err := logger.ProcessStart(eventModule,
		fmt.Sprintf("Extract georeferenced images from %s", bagName),
		[]string{bagPath}); err != nil {
		log.Printf("Warning: event logging unavailable: %v", err)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("ROS Bag Georeferenced Image Extractor")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Input: %s\n", bagPath)
	fmt.Printf("Output: %s\n", outputBase)
	fmt.Println()

	reader, err := bag.Open(bagPath)
	if err != nil {
		log.Fatalf("Failed to read bag: %v", err)
	}

	fmt.Println("Extracting pose data...")
	poseMsgs, err := reader.PoseMessages(*poseTopic)
	if err != nil {
		log.Fatalf("Failed to extract poses: %v", err)
	}
	fmt.Printf("  Found %d pose messages\n", len(poseMsgs))
	if len(poseMsgs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No pose data found. Cannot continue.")
		os.Exit(1)
	}

	samples := make([]pose.Sample, len(poseMsgs))
	for i, m := range poseMsgs {
		samples[i] = m.Sample()
	}
	table := pose.NewTable(samples)
	stats := report.Compute(table)

	for _, cam := range extract.DefaultCameras() {
		fmt.Printf("\nProcessing %s camera (%s)...\n", cam.Name, cam.Description)

		msgs, err := reader.ImageMessages(cam.Topic)
		if err != nil {
			log.Fatalf("Failed to read %s camera topic: %v", cam.Name, err)
		}
		if len(msgs) == 0 {
			log.Printf("  Warning: no topic found at %s", cam.Topic)
			fmt.Printf("  No images found for %s camera\n", cam.Name)
			continue
		}

		imageDir := filepath.Join(outputBase, cam.Name+"_images")
		records, err := extract.SaveImages(msgs, imageDir, cam.Name, cam.Compressed)
		if err != nil {
			log.Fatalf("Failed to extract %s camera images: %v", cam.Name, err)
		}
		fmt.Printf("  Extracted %d images to %s\n", len(records), imageDir)
		stats.ImageCounts[cam.Name] = len(records)

		fmt.Println("  Interpolating poses...")
		matched := metashape.Match(records, table)

		csvPath := filepath.Join(outputBase, cam.Name+"_reference.csv")
		if err := metashape.WriteCSV(csvPath, matched); err != nil {
			log.Fatalf("Failed to write %s reference: %v", cam.Name, err)
		}
		fmt.Printf("  Exported reference: %s\n", csvPath)

		if len(matched) > 0 {
			altMin, altMax := matched[0].Altitude, matched[0].Altitude
			for _, r := range matched {
				altMin = min(altMin, r.Altitude)
				altMax = max(altMax, r.Altitude)
			}
			fmt.Printf("    Altitude range: %.2fm to %.2fm\n", altMin, altMax)
		}
	}

	fmt.Println("\nGenerating mission map...")
	mapPath := filepath.Join(outputBase, "mission_map.png")
	if err := report.RenderMissionMap(mapPath, bagName, table, stats); err != nil {
		log.Fatalf("Failed to render mission map: %v", err)
	}
	fmt.Printf("  Saved: %s\n", mapPath)

	elapsed := time.Since(startTime)
	printSummary(outputBase, stats, elapsed)

	totalImages := 0
	for _, n := range stats.ImageCounts {
		totalImages += n
	}
	if err := logger.ProcessEnd(eventModule, "success", elapsed,
		[]string{outputBase},
		fmt.Sprintf("Extracted %d images from %s", totalImages, bagName)); err != nil {
		log.Printf("Warning: event logging unavailable: %v", err)
	}
}

func printSummary(outputBase string, stats report.Statistics, elapsed time.Duration) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("EXTRACTION COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Output directory: %s\n", outputBase)
	for _, cam := range extract.DefaultCameras() {
		fmt.Printf("  - %s_images/: %d images\n", cam.Name, stats.ImageCounts[cam.Name])
		fmt.Printf("  - %s_reference.csv\n", cam.Name)
	}
	fmt.Println("  - mission_map.png")
	fmt.Printf("  - Duration: %.1f seconds\n", elapsed.Seconds())
	fmt.Println()
	fmt.Println("METASHAPE IMPORT:")
	fmt.Println("  1. Add photos from down_images/ or forward_images/")
	fmt.Println("  2. Reference pane → Import → Select corresponding _reference.csv")
	fmt.Println("  3. Settings: WGS84, Columns: Label=1, Lon=2, Lat=3, Alt=4, Yaw=5, Pitch=6, Roll=7")
}
