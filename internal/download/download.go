// Package download acquires episode audio from remote URLs.
package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"
)

var execCommandContext = exec.CommandContext

var httpClient = &http.Client{Timeout: 10 * time.Minute}

// FetchAudio downloads the audio at url into destPath. It first tries yt-dlp,
// which extracts audio from video-hosting URLs; when that fails it falls back
// to a raw HTTP GET for direct enclosure links.
func FetchAudio(ctx context.Context, url, destPath string) error {
	cmd := execCommandContext(ctx, "yt-dlp",
		url,
		"-x", // extract audio
		"--audio-format", "mp3",
		"-o", destPath,
	)

	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	log.Printf("yt-dlp failed for %s, falling back to direct download: %v, output: %s", url, err, string(output))

	if err := fetchDirect(ctx, url, destPath); err != nil {
		return fmt.Errorf("could not download audio from %s: %w", url, err)
	}
	return nil
}

func fetchDirect(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return nil
}
