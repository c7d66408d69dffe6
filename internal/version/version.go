// 包 version：构建信息，通过 -ldflags "-X povertymap/internal/version.Commit=..." 注入
package version

// Commit：当前构建对应的提交；未注入时为 dev
var Commit = "dev"
