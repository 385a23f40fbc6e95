package analyzer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/promolift/internal/analyzer/producers"
	"github.com/chrisdamba/promolift/internal/cloudwriter"
	"github.com/chrisdamba/promolift/internal/models"
	"github.com/chrisdamba/promolift/internal/output"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type CSVOutput struct {
	basePath string
	folder   string
	writers  map[string]*csv.Writer
	files    map[string]*os.File
	headers  map[string][]string
}

type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	writerMutexes      map[string]*sync.Mutex
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

type ConsoleOutput struct{}

type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCSVOutput(basePath, folder string) *CSVOutput {
	return &CSVOutput{
		basePath: basePath,
		folder:   folder,
		writers:  make(map[string]*csv.Writer),
		files:    make(map[string]*os.File),
		headers:  make(map[string][]string),
	}
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func NewParquetOutput(config *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath:      config.OutputPath,
		folder:        config.OutputFolder,
		writers:       make(map[string]*writer.ParquetWriter),
		writerMutexes: make(map[string]*sync.Mutex),
		files:         make(map[string]source.ParquetFile),
	}

	if config.OutputDestination != "local" {
		var factory cloudwriter.CloudWriterFactory
		var err error

		switch config.CloudStorage.Provider {
		case "s3":
			factory, err = cloudwriter.NewS3WriterFactory(config.CloudStorage.Region)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		p.cloudWriterFactory = factory
		p.cloudBucketName = config.CloudStorage.BucketName
	}

	// clean up leftovers from a previous run
	p.cleanup()

	return p, nil
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{
		cloudWriter: cloudWriter,
		offset:      0,
	}
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	// cloud objects are not opened like local files; the instance is already
	// set up for writing
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	// the object is implicitly created when we start writing
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	return c.cloudWriter.Write(p)
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

// partitionPath derives the warehouse-style partition folder from the
// event's timestamp.
func partitionPath(event map[string]interface{}) (string, error) {
	timestamp, ok := event["timestamp"].(float64)
	if !ok {
		return "", fmt.Errorf("invalid timestamp")
	}
	year, month, day := time.Unix(int64(timestamp), 0).Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", year, month, day), nil
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	partition, err := partitionPath(event)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(c.basePath, c.folder, topic, partition)

	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return err
	}

	fileKey := fmt.Sprintf("%s_%s", topic, partition)
	csvWriter, ok := c.writers[fileKey]
	if !ok {
		file, err := os.Create(filepath.Join(fullPath, "data.csv"))
		if err != nil {
			return err
		}
		csvWriter = csv.NewWriter(file)
		c.writers[fileKey] = csvWriter
		c.files[fileKey] = file

		// headers are written once per file, in sorted order
		headers := c.getHeaders(event)
		if err := csvWriter.Write(headers); err != nil {
			return err
		}
		c.headers[fileKey] = headers
	}

	row := make([]string, len(c.headers[fileKey]))
	for i, header := range c.headers[fileKey] {
		value, ok := event[header]
		if !ok || value == nil {
			row[i] = ""
		} else {
			row[i] = fmt.Sprintf("%v", value)
		}
	}

	if err := csvWriter.Write(row); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (c *CSVOutput) getHeaders(event map[string]interface{}) []string {
	var headers []string
	for key := range event {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	for key, csvWriter := range c.writers {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return err
		}
		if file, ok := c.files[key]; ok {
			if err := file.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	partition, err := partitionPath(event)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(j.basePath, j.folder, topic, partition)

	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return err
	}

	fileKey := fmt.Sprintf("%s_%s", topic, partition)
	file, ok := j.files[fileKey]
	if !ok {
		var err error
		file, err = os.Create(filepath.Join(fullPath, "data.json"))
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err = file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	partition, err := partitionPath(event)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(p.basePath, p.folder, topic, partition)

	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return err
	}

	writerKey := fmt.Sprintf("%s_%s", topic, partition)
	p.mu.Lock()
	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, fullPath, topic)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}
	writerMutex := p.writerMutexes[writerKey]
	p.mu.Unlock()

	writerMutex.Lock()
	defer writerMutex.Unlock()

	record, err := decodeEvent(topic, msg)
	if err != nil {
		return err
	}
	if err := pw.Write(record); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// decodeEvent rebuilds the typed event from its JSON form so the parquet
// writer sees the struct its schema was derived from.
func decodeEvent(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case TopicPromotionAnalysis:
		var event PromotionAnalysisEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return nil, fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return event, nil
	case TopicPromotionScenario:
		var event PromotionScenarioEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return nil, fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return event, nil
	case TopicWeeklyGrade:
		var event WeeklyGradeEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return nil, fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return event, nil
	case TopicHistoricalSummary:
		var event HistoricalSummaryEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return nil, fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return event, nil
	case TopicAnalysisError:
		var event AnalysisErrorEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			return nil, fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return event, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", topic)
	}
}

func (p *ParquetOutput) cleanup() {
	fullPath := filepath.Join(p.basePath, p.folder)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return
	}
	err := filepath.Walk(fullPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".parquet" {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error cleaning up Parquet files: %v", err)
	}
}

func (p *ParquetOutput) createNewWriter(writerKey, fullPath, topic string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	var err error
	if p.cloudWriterFactory != nil {
		objectPath := filepath.Join(p.folder, topic, fullPath, "data.parquet")
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		filePath := filepath.Join(fullPath, "data.parquet")
		fw, err = local.NewLocalFileWriter(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	sc, err := GetSchema(topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, nil, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.SchemaHandler = sc

	p.writers[writerKey] = pw
	p.writerMutexes[writerKey] = &sync.Mutex{}
	p.files[writerKey] = fw

	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if pw == nil {
			log.Printf("Warning: Nil writer found for key: %s", key)
			continue
		}
		if mutex, ok := p.writerMutexes[key]; ok {
			mutex.Lock()
			if err := pw.WriteStop(); err != nil {
				lastErr = err
				log.Printf("Error closing writer for key %s: %v", key, err)
			}
			if f, ok := p.files[key]; ok {
				if err := f.Close(); err != nil {
					lastErr = err
					log.Printf("Error closing file for key %s: %v", key, err)
				}
			}
			mutex.Unlock()
		}
	}
	return lastErr
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	out := fmt.Sprintf("[%s] %s\n", topic, string(msg))

	if _, err := os.Stdout.Write([]byte(out)); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	// try to sync, but don't fail on it
	_ = os.Stdout.Sync()

	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

func (a *Analyzer) determineOutputDestination() OutputDestination {
	if a.Config.KafkaEnabled {
		saramaProducer, err := producers.NewSaramaProducer(a.Config)
		if err != nil {
			log.Fatalf("Failed to create Sarama producer: %v", err)
		}
		return saramaProducer
	}

	if a.Config.OutputFormat == "postgres" {
		postgres, err := output.NewPostgresOutput(&a.Config.Database)
		if err != nil {
			log.Fatalf("Failed to create Postgres output: %v", err)
		}
		return postgres
	}

	if a.Config.OutputPath != "" {
		switch a.Config.OutputFormat {
		case "parquet":
			parquet, err := NewParquetOutput(a.Config)
			if err != nil {
				log.Fatalf("Failed to create Parquet output: %s", err)
			}
			return parquet
		case "json":
			return NewJSONOutput(a.Config.OutputPath, a.Config.OutputFolder)
		case "csv":
			return NewCSVOutput(a.Config.OutputPath, a.Config.OutputFolder)
		default:
			log.Fatalf("Unsupported output format: %s", a.Config.OutputFormat)
		}
	}

	return &ConsoleOutput{}
}
