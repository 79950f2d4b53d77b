package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zhukovaskychina/xdb2-client/logger"
	"github.com/zhukovaskychina/xdb2-client/server/conf"
	"github.com/zhukovaskychina/xdb2-client/server/protocol"
	"github.com/zhukovaskychina/xdb2-client/server/resultset"
)

const help = `
xdb2dump 解码抓包文件中的 DB2 for i 行数据
  -configPath  指定 xdb2.ini 配置文件
  -layout      列布局 TOML 文件
  -capture     抓包文件
  -recompress  将抓包文件按 [capture] compression 重新写到该路径
`

func main() {
	var configPath, layoutPath, capturePath, recompressPath string
	flag.StringVar(&configPath, "configPath", "", "配置文件路径")
	flag.StringVar(&layoutPath, "layout", "", "列布局文件")
	flag.StringVar(&capturePath, "capture", "", "抓包文件")
	flag.StringVar(&recompressPath, "recompress", "", "重新压缩后的输出文件")
	flag.Usage = func() { fmt.Fprint(os.Stderr, help) }
	flag.Parse()

	if capturePath == "" || (layoutPath == "" && recompressPath == "") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := conf.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.LogConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	if recompressPath != "" {
		err = recompress(capturePath, recompressPath, cfg.Compression)
	} else {
		err = dump(os.Stdout, cfg, layoutPath, capturePath)
	}
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, cfg *conf.Cfg, layoutPath, capturePath string) error {
	meta, err := protocol.LoadLayoutFile(layoutPath)
	if err != nil {
		return err
	}
	in, err := protocol.OpenCaptureFile(capturePath)
	if err != nil {
		return err
	}
	defer in.Close()

	rs, err := resultset.New(meta, cfg.ColumnOptions(), in)
	if err != nil {
		return err
	}
	defer rs.Close()

	out := bufio.NewWriter(w)
	defer out.Flush()

	labels := make([]string, 0, meta.ColumnCount())
	for _, c := range rs.Columns() {
		labels = append(labels, c.Label())
	}
	fmt.Fprintln(out, strings.Join(labels, "\t"))

	cells := make([]string, meta.ColumnCount())
	for {
		ok, err := rs.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		for i := range cells {
			s, err := rs.GetString(i + 1)
			if err != nil {
				return err
			}
			if rs.WasNull() {
				s = "NULL"
			}
			cells[i] = s
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
	}
	logger.Infof("dumped %d rows from %s", rs.RowNumber(), capturePath)
	return nil
}

func recompress(from, to string, c protocol.CompressType) error {
	in, err := protocol.OpenCaptureFile(from)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := protocol.CreateCaptureFile(to, c)
	if err != nil {
		return err
	}
	n := 0
	for {
		b, err := in.ReadBatch()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return err
		}
		if err := out.WriteBatch(b); err != nil {
			out.Close()
			return err
		}
		n++
	}
	logger.Infof("recompressed %d batches %s -> %s (%s)", n, in.Compression(), c, to)
	return out.Close()
}
