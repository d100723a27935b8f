package extractor

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"dvine-asset/config"
)

const downloadRecordFile = "downloaded-files.json"

// DvineDataFetcher downloads the raw game data files from a mirror so
// extraction can run on a machine without an installed copy.
type DvineDataFetcher struct {
	ctx     context.Context
	baseURL string
	saveDir string
	sem     int
	client  *resty.Client
}

func NewDvineDataFetcher(ctx context.Context, baseURL string, saveDir string, proxy string, sem int) *DvineDataFetcher {
	client := resty.New()
	client.
		SetRetryCount(0).
		SetTransport(&http.Transport{
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DisableKeepAlives:   false,
		}).
		SetHeader("Accept", "*/*").
		SetHeader("User-Agent", "DvineAssetExtractor/"+config.Version).
		SetHeader("Connection", "keep-alive").
		SetHeader("Accept-Encoding", "gzip, deflate, br")
	if proxy != "" {
		client.SetProxy(proxy)
	}
	if sem <= 0 {
		sem = 4
	}
	return &DvineDataFetcher{
		ctx:     ctx,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		saveDir: saveDir,
		sem:     sem,
		client:  client,
	}
}

func (f *DvineDataFetcher) loadDownloadRecord() (map[string]string, error) {
	var record map[string]string
	data, err := os.ReadFile(filepath.Join(f.saveDir, downloadRecordFile))
	if err != nil {
		if os.IsNotExist(err) {
			record = make(map[string]string)
			return record, nil
		}
		return nil, err
	}
	if err = sonic.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func (f *DvineDataFetcher) saveDownloadRecord(record map[string]string) error {
	data, err := sonic.Marshal(record)
	if err != nil {
		return err
	}
	if err = os.WriteFile(filepath.Join(f.saveDir, downloadRecordFile), data, 0o644); err != nil {
		return err
	}
	return nil
}

func (f *DvineDataFetcher) request(url string) (*resty.Response, error) {
	var lastErr error
	for attempt := 0; attempt < 4; attempt++ {
		resp, err := f.client.R().
			SetContext(f.ctx).
			Get(url)
		if err != nil {
			lastErr = err
			time.Sleep(time.Second)
			continue
		}
		if resp.StatusCode() >= 500 {
			lastErr = errors.New("server error")
			time.Sleep(time.Second)
		} else {
			return resp, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("request failed after retries")
}

func (f *DvineDataFetcher) fetchFile(name string, record map[string]string, mu *sync.Mutex) error {
	resp, err := f.request(f.baseURL + "/" + name)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return errors.New("unexpected status " + resp.Status() + " for " + name)
	}
	etag := resp.Header().Get("ETag")

	mu.Lock()
	known, seen := record[name]
	mu.Unlock()
	if seen && etag != "" && known == etag {
		logger.Debugf("Skipping %s, already downloaded", name)
		return nil
	}

	if err := os.WriteFile(filepath.Join(f.saveDir, name), resp.Body(), 0o644); err != nil {
		return err
	}
	mu.Lock()
	record[name] = etag
	mu.Unlock()
	logger.Infof("Downloaded %s (%d bytes)", name, len(resp.Body()))
	return nil
}

// FetchAll downloads every configured data file, skipping files whose
// ETag matches the local download record.
func (f *DvineDataFetcher) FetchAll(files []string) error {
	if err := os.MkdirAll(f.saveDir, 0755); err != nil {
		return err
	}
	record, err := f.loadDownloadRecord()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, f.sem)
	errChan := make(chan error, len(files))

	for _, name := range files {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			if err := f.fetchFile(name, record, &mu); err != nil {
				logger.Warnf("Failed to download %s: %v", name, err)
				errChan <- err
			}
		}(name)
	}
	wg.Wait()
	close(errChan)

	if err := f.saveDownloadRecord(record); err != nil {
		logger.Warnf("Failed to save download record: %v", err)
	}

	var firstErr error
	errorCount := 0
	for e := range errChan {
		errorCount++
		if firstErr == nil {
			firstErr = e
		}
	}
	if errorCount > 0 {
		logger.Errorf("%d of %d downloads failed", errorCount, len(files))
		return firstErr
	}
	return nil
}

func (f *DvineDataFetcher) Close() {
	f.client = nil
}
