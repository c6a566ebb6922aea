package loadorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/transcode"
)

// textfileStrategy implements OrderingMethod Textfile: order lives in
// loadorder.txt (UTF-8), the active set in plugins.txt (Windows-1252).
type textfileStrategy struct{}

func (textfileStrategy) seed(lo *LoadOrder) error {
	orderFile := lo.profile.LoadOrderFile()
	if _, err := os.Stat(orderFile); err == nil {
		return lo.seedFromFile(orderFile, false)
	}

	activeFile := lo.profile.ActivePluginsFile()
	if _, err := os.Stat(activeFile); err == nil {
		return lo.seedFromFile(activeFile, true)
	}

	return nil
}

// seedFromFile reads one plugin name per line (skipping blanks and
// #-comments), optionally transcoding from Windows-1252, and inserts each
// valid one in file order: masters right after the last master,
// non-masters at the tail.
func (lo *LoadOrder) seedFromFile(path string, legacyEncoding bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileParseFail, path, err)
	}

	if !legacyEncoding && !utf8.Valid(data) {
		return fmt.Errorf("%w: %s", domain.ErrFileNotUTF8, path)
	}

	text := string(data)
	if legacyEncoding {
		text = transcode.ToUTF8(data)
	}

	for _, line := range splitLines(text) {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id := domain.NewPluginIdentity(line)
		if !id.IsValid() {
			continue
		}
		if !lo.introspect(id).IsValid() {
			continue
		}
		if lo.Find(id) < len(lo.plugins) {
			continue
		}
		lo.insertPartitioned(id)
	}
	return nil
}

func (textfileStrategy) finalize(lo *LoadOrder, folderMtime time.Time) error {
	if info, err := os.Stat(lo.profile.LoadOrderFile()); err == nil {
		lo.mtime = info.ModTime()
		return nil
	}
	lo.mtime = folderMtime
	return nil
}

func (textfileStrategy) save(lo *LoadOrder, ap ActivePluginsCollaborator) error {
	path := lo.profile.LoadOrderFile()

	var sb strings.Builder
	for _, id := range lo.plugins {
		sb.WriteString(id.Name())
		sb.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileWriteFail, path, err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileWriteFail, path, err)
	}

	if ap != nil {
		changed, err := ap.HasChanged()
		if err != nil {
			return err
		}
		if changed {
			if err := ap.Load(); err != nil {
				return err
			}
		}
		if err := ap.Save(lo.plugins); err != nil {
			return err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrTimestampReadFail, path, err)
	}
	lo.mtime = info.ModTime()
	return nil
}

func (textfileStrategy) hasChanged(lo *LoadOrder) (bool, error) {
	watermark := lo.mtime

	orderInfo, err := os.Stat(lo.profile.LoadOrderFile())
	if err == nil && orderInfo.ModTime().After(watermark) {
		return true, nil
	}

	folderInfo, err := os.Stat(lo.profile.PluginsFolder())
	if err == nil && folderInfo.ModTime().After(watermark) {
		return true, nil
	}

	return false, nil
}
