package mcpservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"
)

// RegisterFS registers every regular file in fsys as a resource under
// baseURI (for example "file://docs"). Files are walked in lexical order once,
// at call time; the registry does not track later changes.
//
// Reading a resource returns the file's decoded value for .json files and its
// text otherwise. Symlinks and paths that are not valid fs paths are skipped.
func (r *Registry) RegisterFS(fsys fs.FS, baseURI string) (int, error) {
	base := strings.TrimRight(baseURI, "/")
	n := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isSymlink(d) || !validFSPath(p) {
			return nil
		}
		uri := base + "/" + escapePath(p)
		r.RegisterResource(NewResource(uri, "File "+p, fileReader(fsys, p)))
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("register fs resources: %w", err)
	}
	return n, nil
}

func fileReader(fsys fs.FS, p string) ResourceHandler {
	return func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if strings.EqualFold(path.Ext(p), ".json") {
			var v any
			if err := json.Unmarshal(b, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", p, err)
			}
			return v, nil
		}
		return string(b), nil
	}
}

func isSymlink(d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink != 0 {
		return true
	}
	if info, err := d.Info(); err == nil {
		return info.Mode()&fs.ModeSymlink != 0
	}
	return false
}

func validFSPath(p string) bool {
	return fs.ValidPath(p) && !strings.Contains(p, ":")
}

func escapePath(rel string) string {
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
