package protocol

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	jerrors "github.com/juju/errors"
	"github.com/pierrec/lz4/v4"
	"github.com/sirupsen/logrus"

	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/util"
)

// CompressType 抓包文件的压缩方式
type CompressType byte

const (
	CompressNone CompressType = iota
	CompressSnappy
	CompressLZ4
)

func (c CompressType) String() string {
	switch c {
	case CompressSnappy:
		return "snappy"
	case CompressLZ4:
		return "lz4"
	}
	return "none"
}

// ParseCompressType 配置中的压缩名
func ParseCompressType(name string) (CompressType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressNone, nil
	case "snappy":
		return CompressSnappy, nil
	case "lz4":
		return CompressLZ4, nil
	}
	return CompressNone, jerrors.Errorf("illegal compress type %q", name)
}

var captureMagic = []byte("XDB2CAP\x01")

// MaxCaptureBatchBytes 单批指示符与行数据的总大小上限，超过即视为文件损坏
const MaxCaptureBatchBytes = 256 << 20

// CaptureWriter 顺序写入块取结果，供离线解码和回归测试使用
type CaptureWriter struct {
	out      io.Writer
	closer   io.Closer
	file     *os.File
	compress CompressType
	batches  int
}

func NewCaptureWriter(w io.Writer, c CompressType) (*CaptureWriter, error) {
	header := append(append([]byte(nil), captureMagic...), byte(c))
	if _, err := w.Write(header); err != nil {
		return nil, jerrors.Annotatef(err, "write capture header")
	}
	cw := &CaptureWriter{compress: c}
	switch c {
	case CompressNone:
		bw := bufio.NewWriter(w)
		cw.out, cw.closer = bw, flushCloser{bw}
	case CompressSnappy:
		sw := snappy.NewBufferedWriter(w)
		cw.out, cw.closer = sw, sw
	case CompressLZ4:
		lw := lz4.NewWriter(w)
		cw.out, cw.closer = lw, lw
	default:
		return nil, jerrors.Errorf("illegal compress type %d", c)
	}
	return cw, nil
}

// CreateCaptureFile 创建文件，必要时创建目录
func CreateCaptureFile(path string, c CompressType) (*CaptureWriter, error) {
	f, err := util.CreateFileWithPath(path)
	if err != nil {
		return nil, jerrors.Annotatef(err, "create capture file %s", path)
	}
	cw, err := NewCaptureWriter(f, c)
	if err != nil {
		f.Close()
		return nil, err
	}
	cw.file = f
	return cw, nil
}

type flushCloser struct {
	w *bufio.Writer
}

func (f flushCloser) Close() error {
	return f.w.Flush()
}

func (cw *CaptureWriter) WriteBatch(b *RowBatch) error {
	if err := b.validate(); err != nil {
		return jerrors.Trace(err)
	}
	buff := make([]byte, 0, 10+2*len(b.Indicators)+len(b.Rows))
	buff = util.WriteUB4(buff, uint32(b.RowCount))
	buff = util.WriteUB2(buff, uint16(b.ColumnCount))
	buff = util.WriteUB4(buff, uint32(b.RowSize))
	for _, ind := range b.Indicators {
		buff = util.WriteUB2(buff, uint16(ind))
	}
	buff = util.WriteBytes(buff, b.Rows)
	if _, err := cw.out.Write(buff); err != nil {
		return jerrors.Annotatef(err, "write capture batch %d", cw.batches)
	}
	cw.batches++
	logger.WithFields(logrus.Fields{
		"batch": cw.batches,
		"rows":  b.RowCount,
		"bytes": len(buff),
	}).Debug("capture batch written")
	return nil
}

// Close 刷新压缩流，文件由 CreateCaptureFile 打开时一并关闭
func (cw *CaptureWriter) Close() error {
	err := cw.closer.Close()
	if cw.file != nil {
		if ferr := cw.file.Close(); err == nil {
			err = ferr
		}
	}
	return jerrors.Trace(err)
}

// CaptureReader 读取 CaptureWriter 写出的文件
type CaptureReader struct {
	in       io.Reader
	file     *os.File
	compress CompressType
}

func NewCaptureReader(r io.Reader) (*CaptureReader, error) {
	header := make([]byte, len(captureMagic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, jerrors.Annotatef(err, "read capture header")
	}
	if !bytes.Equal(header[:len(captureMagic)], captureMagic) {
		return nil, jerrors.New("not a capture file")
	}
	cr := &CaptureReader{compress: CompressType(header[len(captureMagic)])}
	switch cr.compress {
	case CompressNone:
		cr.in = bufio.NewReader(r)
	case CompressSnappy:
		cr.in = snappy.NewReader(r)
	case CompressLZ4:
		cr.in = lz4.NewReader(r)
	default:
		return nil, jerrors.Errorf("illegal compress type %d", cr.compress)
	}
	return cr, nil
}

func OpenCaptureFile(path string) (*CaptureReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, jerrors.Annotatef(err, "open capture file %s", path)
	}
	cr, err := NewCaptureReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	cr.file = f
	return cr, nil
}

func (cr *CaptureReader) Compression() CompressType {
	return cr.compress
}

// ReadBatch 读下一批，文件结束时返回 io.EOF
func (cr *CaptureReader) ReadBatch() (*RowBatch, error) {
	header := make([]byte, 10)
	if _, err := io.ReadFull(cr.in, header); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, jerrors.Annotatef(err, "read batch header")
	}
	cursor, rowCount := util.ReadUB4(header, 0)
	cursor, columnCount := util.ReadUB2(header, cursor)
	_, rowSize := util.ReadUB4(header, cursor)

	size := uint64(rowCount) * (uint64(rowSize) + 2*uint64(columnCount))
	if size > MaxCaptureBatchBytes {
		return nil, jerrors.Errorf("capture batch of %d rows x %d bytes (%d columns) exceeds %d bytes",
			rowCount, rowSize, columnCount, MaxCaptureBatchBytes)
	}
	b := NewResultData(int(rowCount), int(columnCount), int(rowSize))
	inds := make([]byte, 2*len(b.Indicators))
	if _, err := io.ReadFull(cr.in, inds); err != nil {
		return nil, jerrors.Annotatef(err, "read batch indicators")
	}
	for i := range b.Indicators {
		_, v := util.ReadInt16(inds, 2*i)
		b.Indicators[i] = v
	}
	if _, err := io.ReadFull(cr.in, b.Rows); err != nil {
		return nil, jerrors.Annotatef(err, "read batch rows")
	}
	return b, nil
}

func (cr *CaptureReader) Close() error {
	if cr.file != nil {
		return cr.file.Close()
	}
	return nil
}
