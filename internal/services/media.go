package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/internal/repository"
	"github.com/clitter/clitter/internal/storage"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/queue"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"
)

// filetype only needs the first 261 bytes to recognise a format.
const sniffLen = 261

type MediaService struct {
	mediaRepo *repository.MediaRepository
	storage   storage.Storage
	publicURL string
	maxSize   int64
	events    *Emitter
	logger    *logger.Logger
}

func NewMediaService(mediaRepo *repository.MediaRepository, store storage.Storage, publicURL string, maxSize int64, events *Emitter, logger *logger.Logger) *MediaService {
	return &MediaService{
		mediaRepo: mediaRepo,
		storage:   store,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		maxSize:   maxSize,
		events:    events,
		logger:    logger,
	}
}

// Upload stores the file unless identical bytes were uploaded before, in
// which case the earlier record is returned and created is false.
func (s *MediaService) Upload(ctx context.Context, fileName string, r io.Reader) (media *models.Media, created bool, err error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, false, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, false, NewValidationError("file is empty")
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.mediaRepo.GetByHash(ctx, hash)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	contentType, ext := detectType(data)
	key := mediaKey(hash, fileName, ext)
	if err := s.storage.Put(ctx, key, data, contentType); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to store media")
		return nil, false, ErrMediaImport
	}

	media, created, err = s.mediaRepo.GetOrCreate(ctx, &models.Media{
		Link:        s.publicURL + "/" + key,
		Hash:        hash,
		FileName:    filepath.Base(fileName),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.events.Emit(ctx, media.ID, queue.EventMediaCreated, queue.MediaEventData{MediaID: media.ID, Hash: hash, Link: media.Link})
		s.logger.WithFields(logrus.Fields{"media_id": media.ID, "hash": hash}).Info("Media stored")
	}
	return media, created, nil
}

// Links resolves media ids to their links. Unknown ids are skipped.
func (s *MediaService) Links(ctx context.Context, ids []int64) ([]string, error) {
	found, err := s.mediaRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) < len(ids) {
		s.logger.WithField("media_ids", ids).Warn("Skipping unknown media ids")
	}

	links := make([]string, len(found))
	for i, m := range found {
		links[i] = m.Link
	}
	return links, nil
}

func detectType(data []byte) (contentType, ext string) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, _ := filetype.Match(head)
	if kind == filetype.Unknown {
		return "application/octet-stream", ""
	}
	return kind.MIME.Value, kind.Extension
}

// mediaKey names the stored object after the content hash and a sanitised
// version of the client's file name.
func mediaKey(hash, fileName, ext string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, `\`, "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if name == "" {
		name = "upload"
		if ext != "" {
			name += "." + ext
		}
	}
	return hash[:16] + "-" + name
}
