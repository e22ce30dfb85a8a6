package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/fixtures"
	"github.com/ayusman/mudra/internal/gesture"
)

var classifyFlags struct {
	mirror  bool
	out     string
	fixture string
}

var classifyCmd = &cobra.Command{
	Use:   "classify [landmarks.json|image]",
	Short: "Classify a landmark file, an image or a built-in sample",
	Long: "Classify prints the gesture for a JSON landmark set, for the first hand\n" +
		"found in an image (requires the MediaPipe helper), or for a built-in\n" +
		"sample selected with --fixture. With no arguments every sample is listed.",
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.BoolVar(&classifyFlags.mirror, "mirror", false, "flip images horizontally before detection")
	f.StringVar(&classifyFlags.out, "out", "", "write the annotated image to this file")
	f.StringVar(&classifyFlags.fixture, "fixture", "", "classify a built-in sample, e.g. \"thank_you\"")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	classifier := gesture.NewClassifier(cfg.Classifier)
	out := cmd.OutOrStdout()

	switch {
	case classifyFlags.fixture != "":
		s, err := fixtures.Load(classifyFlags.fixture)
		if err != nil {
			return err
		}
		return printClassification(cmd, classifier, &s.Hand)

	case len(args) == 0:
		samples, err := fixtures.All()
		if err != nil {
			return err
		}
		for _, s := range samples {
			label, err := classifier.Classify(&s.Hand)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-10s -> ", s.Label)
			printLabel(out, label)
		}
		return nil

	case strings.EqualFold(filepath.Ext(args[0]), ".json"):
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		s, err := fixtures.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return printClassification(cmd, classifier, &s.Hand)
	}

	return classifyImage(cmd, cfg.Detector, classifier, args[0])
}

func printClassification(cmd *cobra.Command, c *gesture.Classifier, hand *detector.HandLandmarks) error {
	label, err := c.Classify(hand)
	if err != nil {
		return err
	}
	printLabel(cmd.OutOrStdout(), label)
	return nil
}

func classifyImage(cmd *cobra.Command, detCfg detector.Config, c *gesture.Classifier, path string) error {
	img, err := loadImage(path, classifyFlags.mirror)
	if err != nil {
		return err
	}

	frame, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	defer frame.Close()

	det, err := detector.NewMediaPipeDetector(detCfg)
	if err != nil {
		return fmt.Errorf("hand detector unavailable: %w", err)
	}
	defer det.Close()

	rec := gesture.NewRecognizer(det, c)
	rec.SetAnnotate(classifyFlags.out != "")

	result, err := rec.Recognize(&frame)
	if err != nil {
		return err
	}
	defer result.Close()

	out := cmd.OutOrStdout()
	printLabel(out, result.Gesture)
	printNote(out, "%d hand(s) detected", len(result.Hands))

	if classifyFlags.out != "" && result.Annotated != nil {
		if ok := gocv.IMWrite(classifyFlags.out, *result.Annotated); !ok {
			return errors.New("failed to write " + classifyFlags.out)
		}
		printNote(out, "annotated image written to %s", classifyFlags.out)
	}
	return nil
}

// loadImage decodes path and applies its EXIF orientation.
func loadImage(path string, mirror bool) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	if mirror {
		return imaging.FlipH(img), nil
	}
	return img, nil
}
