package catalog

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// scan walks the media root and builds a fresh snapshot. A failure to read
// the root itself is fatal; a failure on any single entry only drops that
// entry, so concurrent filesystem modification cannot break the whole build.
func (m *ManagerCtx) scan() ([]Asset, error) {
	if err := os.MkdirAll(m.config.MediaDir, 0755); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(m.config.MediaDir)
	if err != nil {
		return nil, err
	}

	// names must stay unique within one snapshot. Entries arrive sorted by
	// filename, so a stream-ready dir wins over a plain file of the same stem.
	assets := []Asset{}
	seen := map[string]struct{}{}
	for _, entry := range entries {
		asset, ok := m.buildAsset(entry)
		if !ok {
			continue
		}

		if _, dup := seen[asset.Name]; dup {
			m.logger.Debug().Str("asset", asset.Name).Str("entry", entry.Name()).Msg("duplicate asset name, entry dropped")
			continue
		}
		seen[asset.Name] = struct{}{}

		assets = append(assets, asset)
	}

	return assets, nil
}

func (m *ManagerCtx) buildAsset(entry os.DirEntry) (Asset, bool) {
	name := entry.Name()

	// dotfiles and ingest staging dirs never enter the catalog
	if strings.HasPrefix(name, ".") {
		return Asset{}, false
	}

	if entry.IsDir() {
		playlistPath := path.Join(m.config.MediaDir, name, m.config.PlaylistName)
		if _, err := os.Stat(playlistPath); err != nil {
			// not stream-ready, silently excluded
			return Asset{}, false
		}

		size, modified, err := subtreeStats(path.Join(m.config.MediaDir, name))
		if err != nil {
			m.logger.Debug().Err(err).Str("asset", name).Msg("entry dropped from scan")
			return Asset{}, false
		}

		return Asset{
			Name:           name,
			TotalSizeBytes: size,
			LastModified:   modified,
			StreamReady:    true,
		}, true
	}

	// plain files are catalogued when they carry a recognized video extension
	ext := strings.ToLower(filepath.Ext(name))
	recognized := false
	for _, videoExt := range m.config.VideoExts {
		if ext == videoExt {
			recognized = true
			break
		}
	}
	if !recognized {
		return Asset{}, false
	}

	info, err := entry.Info()
	if err != nil {
		m.logger.Debug().Err(err).Str("asset", name).Msg("entry dropped from scan")
		return Asset{}, false
	}

	return Asset{
		Name:           strings.TrimSuffix(name, ext),
		TotalSizeBytes: info.Size(),
		LastModified:   info.ModTime(),
		StreamReady:    false,
	}, true
}

// subtreeStats sums sizes and takes the newest mtime over all files below
// root, symlinks treated as leaf nodes.
func subtreeStats(root string) (int64, time.Time, error) {
	var size int64
	var modified time.Time

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		size += info.Size()
		if info.ModTime().After(modified) {
			modified = info.ModTime()
		}
		return nil
	})

	return size, modified, err
}
