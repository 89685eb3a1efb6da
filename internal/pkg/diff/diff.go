package diff

import (
	"errors"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Compute 计算从 oldContent 到 newContent 的补丁文本。
// 补丁可通过 Apply 还原，存储后用于版本间追溯。
func Compute(oldContent, newContent string) string {
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(oldContent, newContent)
	return dmp.PatchToText(patches)
}

// Apply 将补丁应用到 oldContent，得到目标内容
func Apply(oldContent, patchText string) (string, error) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patchText)
	if err != nil {
		return "", err
	}
	result, applied := dmp.PatchApply(patches, oldContent)
	for _, ok := range applied {
		if !ok {
			return "", errors.New("patch did not apply cleanly")
		}
	}
	return result, nil
}
