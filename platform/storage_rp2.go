//go:build rp2040

package platform

import (
	"machine"
	"os"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/fatfs"
	"tinygo.org/x/tinyfs/littlefs"

	"audiocode-go/services/audio"
)

// fsStorage adapts a mounted tinyfs volume to the clip storage port.
type fsStorage struct {
	fs tinyfs.Filesystem
}

func (s *fsStorage) Open(path string) (audio.File, error) {
	return s.fs.OpenFile(path, os.O_RDONLY)
}

// NewFlashStorage mounts the littlefs volume in the onboard flash.
// Clips are written there ahead of time over USB.
func NewFlashStorage() (audio.Storage, error) {
	lfs := littlefs.New(machine.Flash)
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 512,
		BlockCycles:   100,
	})
	if err := lfs.Mount(); err != nil {
		return nil, err
	}
	return &fsStorage{fs: lfs}, nil
}

// NewSDStorage mounts a FAT volume on an SPI SD card for boards with
// more clip data than the flash can hold.
func NewSDStorage(spi *machine.SPI, sck, sdo, sdi, cs machine.Pin) (audio.Storage, error) {
	sd := sdcard.New(spi, sck, sdo, sdi, cs)
	if err := sd.Configure(); err != nil {
		return nil, err
	}
	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	if err := fs.Mount(); err != nil {
		return nil, err
	}
	return &fsStorage{fs: fs}, nil
}
