// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitallib/kramerius-go/kramerius"
)

func TestLicenseJobs_ChunksIntoSeparateProcesses(t *testing.T) {
	pids := make([]string, 3001)
	for i := range pids {
		pids[i] = testPID
	}

	jobs := licenseJobs(kramerius.ProcessTypeAddLicense, kramerius.LicenseDNNTO, pids)
	require.Len(t, jobs, 2)

	first, ok := jobs[0].(kramerius.AddLicenseParams)
	require.True(t, ok)
	assert.Equal(t, kramerius.LicenseDNNTO, first.License)
	assert.Len(t, first.PIDList, 3000)

	second, ok := jobs[1].(kramerius.AddLicenseParams)
	require.True(t, ok)
	assert.Len(t, second.PIDList, 1)
}

func TestLicenseJobs_RemoveUsesRemoveParams(t *testing.T) {
	jobs := licenseJobs(kramerius.ProcessTypeRemoveLicense, kramerius.LicenseDNNTT, []string{testPID})
	require.Len(t, jobs, 1)

	params, ok := jobs[0].(kramerius.RemoveLicenseParams)
	require.True(t, ok)
	assert.Equal(t, kramerius.LicenseDNNTT, params.License)
	assert.Equal(t, []string{testPID}, params.PIDList)
	require.NoError(t, params.Validate())
}
