// Package pipeline runs the episode processing sequence: acquire audio,
// transcribe, generate the article, derive a slug, generate secondary
// artifacts, persist, count usage, clean up. Stages are strictly sequential
// and short-circuit on the first mandatory failure; there is no rollback of
// partial writes and no automatic retry.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"podblog/internal/ai"
	"podblog/internal/blog"
	"podblog/internal/content"
	"podblog/internal/db"
	"podblog/internal/download"
	"podblog/internal/models"
	"podblog/internal/storage"
)

// fetchAudio is swapped out in tests.
var fetchAudio = download.FetchAudio

// Processor holds the external collaborators of a pipeline run. The database
// is reached through the db package directly, matching the rest of the
// service.
type Processor struct {
	AI          ai.Client
	Transcriber ai.Transcriber
	Store       storage.ObjectStore
	TempDir     string
}

func NewProcessor(aiClient ai.Client, transcriber ai.Transcriber, store storage.ObjectStore, tempDir string) *Processor {
	return &Processor{
		AI:          aiClient,
		Transcriber: transcriber,
		Store:       store,
		TempDir:     tempDir,
	}
}

// Run executes the full pipeline for one episode. On success the record ends
// completed with every accumulated field written in a single update followed
// by the usage increment. Any mandatory stage failure is returned as a
// *StageError carrying the accumulated costs; the caller writes the failed
// status.
func (p *Processor) Run(ctx context.Context, episode models.Episode, costs *CostBreakdown) error {
	if err := db.MarkEpisodeProcessing(episode.ID); err != nil {
		return stageErr(StagePersist, fmt.Errorf("failed to mark episode processing: %w", err))
	}

	audioPath, serr := p.acquire(ctx, episode)
	if serr != nil {
		return serr
	}
	defer func() {
		// Best-effort cleanup of the temp audio file.
		if err := os.Remove(audioPath); err != nil {
			log.Printf("Cleanup error for %s: %v", audioPath, err)
		}
	}()

	log.Printf("Transcribing episode %s", episode.ID)
	transcript, err := p.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return stageErr(StageTranscribe, err)
	}
	costs.Transcription = costTranscription

	log.Printf("Generating article for episode %s", episode.ID)
	raw, err := p.AI.GenerateContent(ctx, content.BuildArticlePrompt(transcript), ai.TierStandard)
	if err != nil {
		return stageErr(StageGenerate, err)
	}
	costs.Article = costArticle
	title, body := content.ParseArticle(raw)

	slug, err := blog.UniqueSlug(title, episode.UserID, db.SlugExists)
	if err != nil {
		return stageErr(StagePersist, err)
	}

	social, socialOK := p.generateSocial(ctx, transcript, title)
	if socialOK {
		costs.Social = costSocial
	}

	imageURLs := p.uploadTitleCards(episode, title)
	costs.Images = costImages

	socialJSON, err := json.Marshal(social)
	if err != nil {
		return stageErr(StageGenerate, fmt.Errorf("failed to encode social content: %w", err))
	}
	quotesJSON, err := json.Marshal(social.Quotes)
	if err != nil {
		return stageErr(StageGenerate, fmt.Errorf("failed to encode quotes: %w", err))
	}

	result := db.EpisodeResult{
		Title:          title,
		Slug:           slug,
		Transcript:     transcript,
		Content:        body,
		WordCount:      content.CountWords(body),
		SocialPosts:    string(socialJSON),
		Quotes:         string(quotesJSON),
		ImageInstagram: imageURLs["instagram"],
		ImageTwitter:   imageURLs["twitter"],
		ImageLinkedIn:  imageURLs["linkedin"],
		ImageFacebook:  imageURLs["facebook"],
		CostBreakdown:  costs.JSON(),
	}
	if err := db.UpdateEpisodeCompleted(episode.ID, result); err != nil {
		return stageErr(StagePersist, fmt.Errorf("failed to persist episode: %w", err))
	}

	// Separate write from the completion update; a crash between the two
	// leaves the episode completed but uncounted.
	if err := db.IncrementUsage(episode.UserID, db.CurrentPeriodStart()); err != nil {
		return stageErr(StagePersist, fmt.Errorf("failed to increment usage: %w", err))
	}

	log.Printf("Episode %s completed, slug=%s, words=%d", episode.ID, slug, result.WordCount)
	return nil
}

// acquire places the episode audio in the temp directory, either via the
// remote downloader or from the storage bucket.
func (p *Processor) acquire(ctx context.Context, episode models.Episode) (string, *StageError) {
	if err := os.MkdirAll(p.TempDir, 0o755); err != nil {
		return "", stageErr(StageAcquire, fmt.Errorf("failed to create temp dir: %w", err))
	}

	switch {
	case episode.SourceURL != nil:
		dest := filepath.Join(p.TempDir, episode.ID+".mp3")
		if err := fetchAudio(ctx, *episode.SourceURL, dest); err != nil {
			return "", stageErr(StageAcquire, err)
		}
		return dest, nil
	case episode.StoragePath != nil:
		data, err := p.Store.DownloadAudio(*episode.StoragePath)
		if err != nil {
			return "", stageErr(StageAcquire, err)
		}
		dest := filepath.Join(p.TempDir, episode.ID+".audio")
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return "", stageErr(StageAcquire, fmt.Errorf("failed to write audio file: %w", err))
		}
		return dest, nil
	default:
		return "", stageErr(StageAcquire, fmt.Errorf("episode has no source URL or storage path"))
	}
}

// generateSocial runs the batched social content call. Unparseable output is
// the one soft failure in the pipeline: the hardcoded fallback is substituted
// instead of failing the run. The second return reports whether the call
// produced usable output, so cost only accrues for real responses.
func (p *Processor) generateSocial(ctx context.Context, transcript, title string) (content.SocialContent, bool) {
	raw, err := p.AI.GenerateJSON(ctx, content.BuildSocialPrompt(transcript, title), ai.TierLite)
	if err != nil {
		log.Printf("Social content generation failed, using fallback: %v", err)
		return content.FallbackSocialContent(title), false
	}

	social, err := content.ParseSocialContent(raw)
	if err != nil {
		log.Printf("Social content unparseable, using fallback: %v", err)
		return content.FallbackSocialContent(title), false
	}
	return social, true
}

// uploadTitleCards renders and uploads the template share image per platform.
// Upload failures are logged and leave that platform's URL unset; they never
// fail the run.
func (p *Processor) uploadTitleCards(episode models.Episode, title string) map[string]*string {
	urls := make(map[string]*string, len(content.CardSizes))
	for platform, size := range content.CardSizes {
		card := content.RenderTitleCard(title, size)
		path := fmt.Sprintf("%s/%s-%s.svg", episode.UserID, episode.ID, platform)
		url, err := p.Store.UploadImage(path, card, "image/svg+xml")
		if err != nil {
			log.Printf("Failed to upload %s card for episode %s: %v", platform, episode.ID, err)
			continue
		}
		u := url
		urls[platform] = &u
	}
	return urls
}
