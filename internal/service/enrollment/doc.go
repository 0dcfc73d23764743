// Package enrollment implements user enrollment orchestration: joining and
// leaving bootcamps under the per-user enrollment cap and the date-conflict
// rule, plus user↔bootcamp lookups.
package enrollment
