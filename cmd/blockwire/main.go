// Command blockwire decodes and encodes protobuf block payloads against
// .proto schemas loaded at runtime.
//
// Decode a payload to JSON:
//
//	blockwire --schema ./protos --type eth.trace.v1.Block --input block.bin
//
// Encode a JSON document back to wire bytes:
//
//	blockwire --schema ./protos --type eth.trace.v1.Block --encode --input block.json --output block.bin
//
// Byte fields render as 0x-prefixed hex in both directions.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/blockwire/blockwire"
)

func main() {
	var (
		schemaPath  = pflag.String("schema", "", "path to a .proto file or a directory of them (required)")
		messageType = pflag.String("type", "", "message type to decode or encode, bare or fully qualified")
		inputPath   = pflag.String("input", "-", "input file, - for stdin")
		outputPath  = pflag.String("output", "-", "output file, - for stdout")
		encodeMode  = pflag.Bool("encode", false, "encode JSON input to wire bytes instead of decoding")
		list        = pflag.Bool("list", false, "list registered messages and enums, then exit")
		pretty      = pflag.Bool("pretty", false, "indent JSON output")
		verbose     = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if *schemaPath == "" {
		pflag.Usage()
		log.Fatal().Msg("--schema is required")
	}

	codec := blockwire.New()
	if err := codec.LoadSchema(*schemaPath); err != nil {
		log.Fatal().Err(err).Str("schema", *schemaPath).Msg("failed to load schema")
	}
	log.Debug().Int("messages", len(codec.Messages())).Int("enums", len(codec.Enums())).Msg("schema loaded")

	if *list {
		printRegistered(codec)
		return
	}

	if *messageType == "" {
		log.Fatal().Msg("--type is required unless --list is given")
	}

	input, err := readInput(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("input", *inputPath).Msg("failed to read input")
	}

	var output []byte
	if *encodeMode {
		output, err = encode(codec, input, *messageType)
	} else {
		output, err = decode(codec, input, *messageType, *pretty)
	}
	if err != nil {
		log.Fatal().Err(err).Str("type", *messageType).Msg("codec failure")
	}

	if err := writeOutput(*outputPath, output); err != nil {
		log.Fatal().Err(err).Str("output", *outputPath).Msg("failed to write output")
	}
	log.Debug().Int("bytes", len(output)).Msg("done")
}

func decode(codec blockwire.Codec, input []byte, messageType string, pretty bool) ([]byte, error) {
	decoded, err := codec.Parse(input, messageType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", messageType, err)
	}

	rendered := renderJSON(decoded)
	if pretty {
		return json.MarshalIndent(rendered, "", "  ")
	}
	return json.Marshal(rendered)
}

func encode(codec blockwire.Codec, input []byte, messageType string) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse JSON input: %w", err)
	}

	data, err := codec.Marshal(parseJSON(doc).(map[string]any), messageType)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", messageType, err)
	}
	return data, nil
}

// renderJSON rewrites a decoded value tree into one encoding/json accepts:
// byte slices become hex strings and non-string map keys are stringified.
func renderJSON(v any) any {
	switch t := v.(type) {
	case []byte:
		return hexutil.Encode(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = renderJSON(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = renderJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = renderJSON(val)
		}
		return out
	default:
		return v
	}
}

// parseJSON is the inverse direction: 0x-prefixed strings become byte slices
// so they can feed bytes fields.
func parseJSON(v any) any {
	switch t := v.(type) {
	case string:
		if strings.HasPrefix(t, "0x") {
			if b, err := hexutil.Decode(t); err == nil {
				return b
			}
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = parseJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = parseJSON(val)
		}
		return out
	default:
		return v
	}
}

func printRegistered(codec blockwire.Codec) {
	messages := codec.Messages()
	enums := codec.Enums()
	sort.Strings(messages)
	sort.Strings(enums)

	fmt.Println("messages:")
	for _, name := range messages {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("enums:")
	for _, name := range enums {
		fmt.Printf("  %s\n", name)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
