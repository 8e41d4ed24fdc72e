// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vkdrv

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"goki.dev/vsprite/logx"
	"goki.dev/vsprite/vapi"
)

func TestTable(t *testing.T) {
	var ids uint64
	a := newTable[int](&ids)
	b := newTable[string](&ids)

	assert.Zero(t, a.add(0), "null handle")
	ia := a.add(7)
	ib := b.add("x")
	assert.NotZero(t, ia)
	assert.NotEqual(t, ia, ib, "ids are shared across tables")
	assert.Equal(t, 7, a.get(ia))
	assert.Zero(t, a.get(ib))

	v, ok := a.del(ia)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	_, ok = a.del(ia)
	assert.False(t, ok)
	assert.Zero(t, a.get(ia))
}

func TestCstr(t *testing.T) {
	assert.Equal(t, "main\x00", cstr("main"))
	assert.Equal(t, "main\x00", cstr("main\x00"))
	assert.Nil(t, cstrs(nil))
	assert.Equal(t, []string{"VK_KHR_surface\x00", "VK_KHR_swapchain\x00"}, cstrs([]string{vapi.SurfaceExtension, vapi.SwapchainExtension}))
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, logx.SeverityError, severity(vk.DebugReportFlags(vk.DebugReportErrorBit|vk.DebugReportWarningBit)))
	assert.Equal(t, logx.SeverityWarning, severity(vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit)))
	assert.Equal(t, logx.SeverityInfo, severity(vk.DebugReportFlags(vk.DebugReportInformationBit)))
	assert.Equal(t, logx.SeverityVerbose, severity(vk.DebugReportFlags(vk.DebugReportDebugBit)))
}

func TestEnumValues(t *testing.T) {
	assert.EqualValues(t, vk.FormatB8g8r8a8Unorm, vapi.FormatB8G8R8A8Unorm)
	assert.EqualValues(t, vk.FormatD32Sfloat, vapi.FormatD32Sfloat)
	assert.EqualValues(t, vk.ImageLayoutPresentSrc, vapi.LayoutPresentSrc)
	assert.EqualValues(t, vk.ImageLayoutShaderReadOnlyOptimal, vapi.LayoutShaderReadOnlyOptimal)
	assert.EqualValues(t, vk.PrimitiveTopologyTriangleFan, vapi.TopologyTriangleFan)
	assert.EqualValues(t, vk.PipelineStageColorAttachmentOutputBit, vapi.StageColorAttachmentOutput)
	assert.EqualValues(t, vk.AccessColorAttachmentWriteBit, vapi.AccessColorAttachmentWrite)
	assert.EqualValues(t, vk.DescriptorTypeCombinedImageSampler, vapi.DescriptorCombinedImageSampler)
	assert.EqualValues(t, vk.DescriptorTypeUniformBuffer, vapi.DescriptorUniformBuffer)
	assert.EqualValues(t, vk.BlendFactorOneMinusSrcAlpha, vapi.BlendOneMinusSrcAlpha)
	assert.EqualValues(t, vk.ErrorOutOfDate, vapi.ErrorOutOfDate)
	assert.EqualValues(t, vk.Suboptimal, vapi.Suboptimal)
	assert.EqualValues(t, vk.PresentModeFifo, vapi.PresentModeFifo)
}

func TestMergeExts(t *testing.T) {
	in := []string{vapi.SurfaceExtension}
	out := mergeExts(in, []string{vapi.SurfaceExtension, DebugReportExtension})
	assert.Equal(t, []string{vapi.SurfaceExtension, DebugReportExtension}, out)
	assert.Len(t, in, 1, "input is not modified")
	assert.Empty(t, mergeExts(nil, nil))
}
