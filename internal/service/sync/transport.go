package syncservice

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

// Transport 远端对象存储的传输接口。实现必须返回确定的成败，
// 不向调用方泄露部分完成状态。
type Transport interface {
	Upload(localPath, objectKey string) bool
	Download(objectKey, destPath string) bool
	Delete(objectKey string) bool
}

// HTTPTransport 基于 HTTP 的对象存储传输，对象以
// {baseURL}/objects/{key} 寻址
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTransport(targetServer string, timeout time.Duration) (*HTTPTransport, error) {
	targetServer = strings.TrimSpace(targetServer)
	if targetServer == "" {
		return nil, fmt.Errorf("目标服务器地址不能为空")
	}
	parsed, err := url.Parse(targetServer)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("目标服务器地址格式不正确")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPTransport{
		baseURL: strings.TrimSuffix(targetServer, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (t *HTTPTransport) objectURL(objectKey string) string {
	return t.baseURL + "/objects/" + objectKey
}

func (t *HTTPTransport) Upload(localPath, objectKey string) bool {
	file, err := os.Open(localPath)
	if err != nil {
		klog.Errorf("[sync.Upload] 本地文件不可读: path=%s, error=%v", localPath, err)
		return false
	}
	defer file.Close()

	req, err := http.NewRequest(http.MethodPut, t.objectURL(objectKey), file)
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := t.client.Do(req)
	if err != nil {
		klog.Errorf("[sync.Upload] 上传失败: key=%s, error=%v", objectKey, err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (t *HTTPTransport) Download(objectKey, destPath string) bool {
	resp, err := t.client.Get(t.objectURL(objectKey))
	if err != nil {
		klog.Errorf("[sync.Download] 下载失败: key=%s, error=%v", objectKey, err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return false
	}
	file, err := os.Create(destPath)
	if err != nil {
		return false
	}
	defer file.Close()
	if _, err := io.Copy(file, resp.Body); err != nil {
		klog.Errorf("[sync.Download] 写入失败: dest=%s, error=%v", destPath, err)
		return false
	}
	return true
}

func (t *HTTPTransport) Delete(objectKey string) bool {
	req, err := http.NewRequest(http.MethodDelete, t.objectURL(objectKey), nil)
	if err != nil {
		return false
	}
	resp, err := t.client.Do(req)
	if err != nil {
		klog.Errorf("[sync.Delete] 删除失败: key=%s, error=%v", objectKey, err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
