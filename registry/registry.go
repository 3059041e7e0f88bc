package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/blockwire/blockwire/schema"
)

// Registry stores the schema of protobuf messages and enums, keyed by fully
// qualified name. Decoders look types up here when resolving nested message
// and enum fields. Lookups are concurrent-safe so independent decode calls on
// different goroutines can share one registry.
type Registry struct {
	messages *xsync.Map[string, *schema.Message]
	enums    *xsync.Map[string, *schema.Enum]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		messages: xsync.NewMap[string, *schema.Message](),
		enums:    xsync.NewMap[string, *schema.Enum](),
	}
}

// LoadSchema parses protoPath, a single .proto file or a directory scanned
// recursively, and registers every message and enum it defines. It may be
// called more than once to accumulate schemas from several roots.
func (r *Registry) LoadSchema(protoPath string) error {
	paths, err := collectProtoFiles(protoPath)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .proto files under %s", protoPath)
	}

	files := make([]*protoFile, 0, len(paths))
	for _, p := range paths {
		pf, err := parseProtoFile(p)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", p, err)
		}
		files = append(files, pf)
	}

	// Pass 1: register every enum name, so field building can tell enum
	// references apart from message references.
	for _, pf := range files {
		r.registerEnums(pf)
	}

	// Pass 2: build and register message definitions.
	for _, pf := range files {
		if err := r.registerMessages(pf); err != nil {
			return fmt.Errorf("failed to load %s: %w", pf.path, err)
		}
	}

	return nil
}

// collectProtoFiles returns protoPath itself when it names a .proto file, or
// every .proto file under it when it names a directory.
func collectProtoFiles(protoPath string) ([]string, error) {
	info, err := os.Stat(protoPath)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(protoPath, ".proto") {
			return nil, fmt.Errorf("file %s is not a .proto file", protoPath)
		}
		return []string{protoPath}, nil
	}

	var paths []string
	err = filepath.WalkDir(protoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".proto") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	return paths, nil
}

// GetMessage retrieves a message definition by name. A bare name matches any
// registered message whose fully qualified name ends with it.
func (r *Registry) GetMessage(name string) (*schema.Message, error) {
	if msg, ok := r.messages.Load(name); ok {
		return msg, nil
	}

	var found *schema.Message
	r.messages.Range(func(fullName string, msg *schema.Message) bool {
		if strings.HasSuffix(fullName, "."+name) {
			found = msg
			return false
		}
		return true
	})
	if found != nil {
		return found, nil
	}

	return nil, fmt.Errorf("message not found: %s", name)
}

// GetEnum retrieves an enum definition by name, with the same suffix
// fallback as GetMessage.
func (r *Registry) GetEnum(name string) (*schema.Enum, error) {
	if enum, ok := r.enums.Load(name); ok {
		return enum, nil
	}

	var found *schema.Enum
	r.enums.Range(func(fullName string, enum *schema.Enum) bool {
		if strings.HasSuffix(fullName, "."+name) {
			found = enum
			return false
		}
		return true
	})
	if found != nil {
		return found, nil
	}

	return nil, fmt.Errorf("enum not found: %s", name)
}

// ListMessages returns all registered fully qualified message names.
func (r *Registry) ListMessages() []string {
	var names []string
	r.messages.Range(func(name string, _ *schema.Message) bool {
		names = append(names, name)
		return true
	})
	return names
}

// ListEnums returns all registered fully qualified enum names.
func (r *Registry) ListEnums() []string {
	var names []string
	r.enums.Range(func(name string, _ *schema.Enum) bool {
		names = append(names, name)
		return true
	})
	return names
}
