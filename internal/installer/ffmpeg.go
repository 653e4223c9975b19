// Copyright (c) 2025 Binadox (https://binadox.com)
// This software is licensed under the zlib license. See LICENSE file for details.

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"vl_installer/internal/fetch"
	"vl_installer/internal/pkgmgr"
	"vl_installer/internal/platform"
)

// FFmpeg download locations
const (
	FFmpegWindowsURL = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip"
	FFmpegDarwinURL  = "https://evermeet.cx/ffmpeg/getrelease/zip"

	// FFmpegArchive is the temporary download written into the work dir
	FFmpegArchive = "ffmpeg.zip"
)

// FFmpegManagers are tried in order on Linux
var FFmpegManagers = []string{"apt", "yum"}

// ffmpegRelease returns the binary name and archive URL for a manual install
func ffmpegRelease(o platform.OS) (binary, url string, ok bool) {
	switch o {
	case platform.Windows:
		url = FFmpegWindowsURL
	case platform.Darwin:
		url = FFmpegDarwinURL
	default:
		return "", "", false
	}
	return o.ExecutableName("ffmpeg"), url, true
}

func (i *Installer) installFFmpeg(ctx context.Context) StepResult {
	i.console.Info("Installing FFmpeg...")
	if i.opts.OS == platform.Linux {
		return i.installFFmpegPackage(ctx)
	}
	return i.installFFmpegArchive(ctx)
}

// installFFmpegPackage tries apt and falls back to yum
func (i *Installer) installFFmpegPackage(ctx context.Context) StepResult {
	sev := Severity(StepFFmpeg)

	var errs []error
	for _, name := range FFmpegManagers {
		mgr := pkgmgr.ByName(name, i.opts.Sudo)
		if mgr == nil {
			errs = append(errs, fmt.Errorf("unknown package manager %q", name))
			continue
		}

		err := i.runner.Run(ctx, mgr.InstallCommand("ffmpeg"))
		if err == nil {
			msg := "FFmpeg installed using " + mgr.Name()
			i.console.Success(msg)
			return ok(StepFFmpeg, sev, msg)
		}
		i.logger.Printf("FFmpeg install with %s failed: %v", mgr.Name(), err)
		errs = append(errs, err)
	}

	msg := "Failed to install FFmpeg via package manager"
	i.console.Error(msg)
	return failed(StepFFmpeg, sev, msg, errors.Join(errs...))
}

// installFFmpegArchive downloads a static build and extracts the binary into the work dir
func (i *Installer) installFFmpegArchive(ctx context.Context) StepResult {
	sev := Severity(StepFFmpeg)

	binary, url, supported := ffmpegRelease(i.opts.OS)
	if !supported {
		msg := "Unsupported system for manual FFmpeg installation"
		i.console.Error(msg)
		return failed(StepFFmpeg, sev, msg, fmt.Errorf("no FFmpeg build for %s", i.opts.OS))
	}

	target := filepath.Join(i.opts.WorkDir, binary)
	if fileExists(target) {
		msg := binary + " already exists"
		i.console.Success(msg)
		return skipped(StepFFmpeg, sev, msg)
	}

	if i.opts.DryRun {
		i.console.Command("+ download " + url)
		return skipped(StepFFmpeg, sev, "dry run")
	}
	if i.download == nil {
		return failed(StepFFmpeg, sev, "FFmpeg download failed", errors.New("no downloader configured"))
	}

	archive := filepath.Join(i.opts.WorkDir, FFmpegArchive)
	i.logger.Printf("Downloading FFmpeg from %s", url)
	if _, err := i.download.Download(ctx, url, archive); err != nil {
		msg := "FFmpeg download failed"
		i.console.Error(fmt.Sprintf("%s: %v", msg, err))
		return failed(StepFFmpeg, sev, msg, err)
	}
	defer func() {
		if err := os.Remove(archive); err != nil && !os.IsNotExist(err) {
			i.logger.Printf("Failed to remove %s: %v", archive, err)
		}
	}()

	i.console.Info("Extracting FFmpeg...")
	path, err := fetch.ExtractBinary(archive, binary, i.opts.WorkDir)
	if err != nil {
		msg := "FFmpeg extraction failed"
		i.console.Error(fmt.Sprintf("%s: %v", msg, err))
		return failed(StepFFmpeg, sev, msg, err)
	}

	if i.opts.OS == platform.Windows {
		removed, err := fetch.RemoveDirsContaining(i.opts.WorkDir, "ffmpeg")
		if err != nil {
			i.logger.Printf("Failed to clean up FFmpeg directories: %v", err)
		}
		for _, dir := range removed {
			i.logger.Printf("Removed %s", dir)
		}
	}

	size := "unknown size"
	if fi, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	msg := fmt.Sprintf("FFmpeg installation completed (%s)", size)
	i.console.Success(msg)
	return ok(StepFFmpeg, sev, msg)
}
