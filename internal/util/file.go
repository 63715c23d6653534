package util

import (
	"io"
	"net/http"
)

// DetectMimeType 按文件头 512 字节嗅探真实 MIME 类型，不信任客户端声明
func DetectMimeType(reader io.Reader) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buffer[:n]), nil
}

// IsPDF 检测是否为 PDF；部分浏览器上传时只给出 octet-stream
func IsPDF(mimeType string) bool {
	return mimeType == MimePDF || mimeType == MimeOctetStream
}
