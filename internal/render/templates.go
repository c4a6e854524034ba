package render

// layoutTemplate wraps a rendered body in the export page shell. The page
// width matches A4 at 96dpi so on-screen pixels map directly to print
// millimeters downstream.
const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  html, body { background: #ffffff; }
  body { font-family: "Helvetica Neue", Helvetica, Arial, sans-serif; color: #1a1a1a; }
  #resume-root { position: relative; width: 794px; margin: 0 auto; padding: 40px 48px; background: #ffffff; }
  h1 { font-size: 26px; letter-spacing: 0.5px; }
  h2 { font-size: 14px; text-transform: uppercase; letter-spacing: 1.5px; margin: 18px 0 8px; border-bottom: 1px solid #d0d0d0; padding-bottom: 3px; }
  h3 { font-size: 13px; }
  p, li { font-size: 12px; line-height: 1.45; }
  ul { padding-left: 18px; margin: 4px 0; }
  .headline { font-size: 14px; color: #555; margin-top: 2px; }
  .contact { font-size: 11px; color: #666; margin-top: 6px; }
  .contact span + span::before { content: " \2022 "; color: #bbb; }
  .entry { margin-bottom: 10px; }
  .entry-head { display: flex; justify-content: space-between; }
  .period { font-size: 11px; color: #777; white-space: nowrap; }
  .skills { font-size: 12px; }
  .wm-overlay { position: absolute; inset: 0; pointer-events: none; overflow: hidden; z-index: 10; }
  .wm-text { position: absolute; left: -10%; width: 120%; text-align: center; transform: rotate(-30deg); font-size: 42px; font-weight: 700; color: rgba(150, 150, 150, 0.22); text-transform: uppercase; letter-spacing: 6px; }
  .modern #resume-root { padding: 36px 44px; }
  .modern h1 { color: #0b4f8a; }
  .modern h2 { border-bottom: 2px solid #0b4f8a; color: #0b4f8a; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

// watermarkTemplate emits the structural overlay nodes. They are visible
// by default; entitlement decides at rasterization time whether they stay.
const watermarkTemplate = `<div class="wm-overlay">
  <div class="wm-text" style="top: 18%">ResumeForge</div>
  <div class="wm-text" style="top: 48%">ResumeForge</div>
  <div class="wm-text" style="top: 78%">ResumeForge</div>
</div>`

const classicTemplate = `<div id="resume-root">
{{template "watermark"}}
<header>
  <h1>{{.Content.Meta.Name}}</h1>
  {{if .Content.Meta.Headline}}<div class="headline">{{.Content.Meta.Headline}}</div>{{end}}
  {{if .Content.Meta.Contact}}<div class="contact">{{range $k, $v := .Content.Meta.Contact}}<span>{{$v}}</span>{{end}}</div>{{end}}
</header>
{{if .Content.Summary}}
<section><h2>Summary</h2><p>{{.Content.Summary}}</p></section>
{{end}}
{{if .Content.Experience}}
<section><h2>Experience</h2>
{{range .Content.Experience}}
  <div class="entry">
    <div class="entry-head"><h3>{{.Title}} &middot; {{.Company}}</h3><span class="period">{{.Period}}</span></div>
    {{if .Bullets}}<ul>{{range .Bullets}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
{{end}}
</section>
{{end}}
{{if .Content.Projects}}
<section><h2>Projects</h2>
{{range .Content.Projects}}
  <div class="entry">
    <div class="entry-head"><h3>{{.Title}}{{if .Stack}} &mdash; {{.Stack}}{{end}}</h3></div>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    {{if .Bullets}}<ul>{{range .Bullets}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
{{end}}
</section>
{{end}}
{{if .Content.Education}}
<section><h2>Education</h2>
{{range .Content.Education}}
  <div class="entry">
    <div class="entry-head"><h3>{{.Institution}}{{if .Degree}} &middot; {{.Degree}}{{end}}</h3><span class="period">{{.Period}}</span></div>
  </div>
{{end}}
</section>
{{end}}
{{if .Content.Skills}}
<section><h2>Skills</h2><p class="skills">{{join .Content.Skills ", "}}</p></section>
{{end}}
{{if .Content.Publications}}
<section><h2>Publications</h2><ul>{{range .Content.Publications}}<li>{{.}}</li>{{end}}</ul></section>
{{end}}
{{if .Content.Extras}}
<section><h2>Additional</h2><p>{{.Content.Extras}}</p></section>
{{end}}
</div>`

const modernTemplate = `<div class="modern">
<div id="resume-root">
{{template "watermark"}}
<header>
  <h1>{{.Content.Meta.Name}}</h1>
  {{if .Content.Meta.Headline}}<div class="headline">{{.Content.Meta.Headline}}</div>{{end}}
  {{if .Content.Meta.Contact}}<div class="contact">{{range $k, $v := .Content.Meta.Contact}}<span>{{$v}}</span>{{end}}</div>{{end}}
</header>
{{if .Content.Summary}}
<section><h2>Profile</h2><p>{{.Content.Summary}}</p></section>
{{end}}
{{if .Content.Skills}}
<section><h2>Skills</h2><p class="skills">{{join .Content.Skills " / "}}</p></section>
{{end}}
{{if .Content.Experience}}
<section><h2>Experience</h2>
{{range .Content.Experience}}
  <div class="entry">
    <div class="entry-head"><h3>{{.Title}} @ {{.Company}}</h3><span class="period">{{.Period}}</span></div>
    {{if .Bullets}}<ul>{{range .Bullets}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
{{end}}
</section>
{{end}}
{{if .Content.Projects}}
<section><h2>Projects</h2>
{{range .Content.Projects}}
  <div class="entry">
    <div class="entry-head"><h3>{{.Title}}{{if .Stack}} &mdash; {{.Stack}}{{end}}</h3></div>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
  </div>
{{end}}
</section>
{{end}}
{{if .Content.Education}}
<section><h2>Education</h2>
{{range .Content.Education}}
  <div class="entry">
    <div class="entry-head"><h3>{{.Institution}}{{if .Degree}} &middot; {{.Degree}}{{end}}</h3><span class="period">{{.Period}}</span></div>
  </div>
{{end}}
</section>
{{end}}
{{if .Content.Publications}}
<section><h2>Publications</h2><ul>{{range .Content.Publications}}<li>{{.}}</li>{{end}}</ul></section>
{{end}}
{{if .Content.Extras}}
<section><h2>Additional</h2><p>{{.Content.Extras}}</p></section>
{{end}}
</div>
</div>`
