package storage

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tarndb/tarn-storage/pkg/filesystem"
	"github.com/tarndb/tarn-storage/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	fileBlockManagerPrometheusMetrics sync.Once

	fileBlockManagerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tarndb",
			Subsystem: "storage",
			Name:      "file_block_manager_operations_total",
			Help:      "Number of block reads and writes performed by FileBlockManager",
		},
		[]string{"operation"})
	fileBlockManagerChecksumMismatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tarndb",
			Subsystem: "storage",
			Name:      "file_block_manager_checksum_mismatches_total",
			Help:      "Number of block reads by FileBlockManager that failed checksum validation",
		})
)

type fileBlockManager struct {
	file filesystem.FileReadWriter

	reads  prometheus.Counter
	writes prometheus.Counter
}

// NewFileBlockManager creates a BlockManager that stores all blocks in
// a single file. Block b occupies the BlockAllocSizeBytes sized region
// at byte offset b.ID × BlockAllocSizeBytes, laid out as an 8-byte
// little-endian XXH64 checksum of the payload followed by the payload
// itself. Reads validate the checksum.
func NewFileBlockManager(file filesystem.FileReadWriter) BlockManager {
	fileBlockManagerPrometheusMetrics.Do(func() {
		prometheus.MustRegister(fileBlockManagerOperations)
		prometheus.MustRegister(fileBlockManagerChecksumMismatches)
	})

	return &fileBlockManager{
		file: file,

		reads:  fileBlockManagerOperations.WithLabelValues("Read"),
		writes: fileBlockManagerOperations.WithLabelValues("Write"),
	}
}

func blockOffsetBytes(id BlockID) (int64, error) {
	if id < 0 || id.IsTransient() {
		return 0, status.Errorf(codes.InvalidArgument, "Block %d is not a persistent block", id)
	}
	return int64(id) * BlockAllocSizeBytes, nil
}

func (bm *fileBlockManager) Read(block *Block) error {
	offsetBytes, err := blockOffsetBytes(block.ID)
	if err != nil {
		return err
	}
	var header [BlockHeaderSizeBytes]byte
	if n, err := bm.file.ReadAt(header[:], offsetBytes); err != nil && !(err == io.EOF && n == len(header)) {
		return util.StatusWrapf(err, "Failed to read header of block %d", block.ID)
	}
	if err := block.Buffer.ReadFrom(bm.file, offsetBytes+BlockHeaderSizeBytes); err != nil {
		return util.StatusWrapf(err, "Failed to read contents of block %d", block.ID)
	}
	if checksum := xxhash.Sum64(block.Buffer.Data()); checksum != binary.LittleEndian.Uint64(header[:]) {
		fileBlockManagerChecksumMismatches.Inc()
		return status.Errorf(codes.DataLoss, "Block %d failed checksum validation", block.ID)
	}
	bm.reads.Inc()
	return nil
}

func (bm *fileBlockManager) Write(block *Block) error {
	offsetBytes, err := blockOffsetBytes(block.ID)
	if err != nil {
		return err
	}
	var header [BlockHeaderSizeBytes]byte
	binary.LittleEndian.PutUint64(header[:], xxhash.Sum64(block.Buffer.Data()))
	if _, err := bm.file.WriteAt(header[:], offsetBytes); err != nil {
		return util.StatusWrapf(err, "Failed to write header of block %d", block.ID)
	}
	if err := block.Buffer.WriteTo(bm.file, offsetBytes+BlockHeaderSizeBytes); err != nil {
		return util.StatusWrapf(err, "Failed to write contents of block %d", block.ID)
	}
	bm.writes.Inc()
	return nil
}
