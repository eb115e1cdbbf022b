package regfile

import (
	"io"
	"math/big"
	"strings"

	"github.com/Manu343726/isasim/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Contents of a register file, as stored in register image files
type Image struct {
	// Vector length the image was taken with
	VectorLength int `yaml:"vl"`

	// Register contents by register name. Values are integers in any Go literal base
	// (hex with 0x, binary with 0b, ...) or X for unknown registers
	Registers map[string]string `yaml:"registers"`
}

// Takes an image of all the registers with storage
func (rf *RegisterFile) Image() Image {
	image := Image{
		VectorLength: rf.VectorLength(),
		Registers:    make(map[string]string),
	}

	for _, r := range StorageRegisters() {
		register, _ := rf.storage(r.Class, r.Index)
		image.Registers[r.Name] = register.String()
	}

	return image
}

type imageEntry struct {
	register Register
	pattern  *big.Int
}

// Loads register contents from an image. Registers not present in the image are left untouched.
// Nothing is written if any entry of the image is invalid.
func (rf *RegisterFile) LoadImage(image Image) error {
	if image.VectorLength != 0 && image.VectorLength != rf.VectorLength() {
		return utils.MakeError(ErrInvalidImage, "image vector length is %v, register file vector length is %v", image.VectorLength, rf.VectorLength())
	}

	entries := make([]imageEntry, 0, len(image.Registers))

	for _, name := range utils.SortedKeys(image.Registers) {
		r, err := ParseRegister(name)
		if err != nil {
			return err
		}

		if r.Size != 0 && r.Size != rf.Width(r.Class) {
			return utils.MakeError(ErrInvalidImage, "'%v' is a partial register view", name)
		}

		text := strings.TrimSpace(image.Registers[name])
		if strings.EqualFold(text, "x") {
			entries = append(entries, imageEntry{register: r})
			continue
		}

		pattern, ok := new(big.Int).SetString(strings.ReplaceAll(text, "_", ""), 0)
		if !ok {
			return utils.MakeError(ErrInvalidImage, "'%v': invalid register value '%v'", name, text)
		}

		entries = append(entries, imageEntry{register: r, pattern: pattern})
	}

	for _, entry := range entries {
		var err error

		if entry.pattern == nil {
			err = rf.Invalidate(entry.register)
		} else {
			err = rf.setStorage(entry.register, entry.pattern)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// Writes the image as YAML
func (image Image) Save(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(image); err != nil {
		return utils.MakeError(ErrInvalidImage, "%v", err)
	}

	return encoder.Close()
}

// Reads a YAML register image
func ReadImage(r io.Reader) (Image, error) {
	var image Image

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&image); err != nil {
		return Image{}, utils.MakeError(ErrInvalidImage, "%v", err)
	}

	return image, nil
}
