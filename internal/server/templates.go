package server

import "html/template"

var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | PremiumLens</title>
<style>
body { font-family: sans-serif; margin: 0; color: #222; display: flex; }
nav { width: 180px; min-height: 100vh; background: #f3f5f8; padding: 1em; }
nav a { display: block; padding: 0.4em 0; color: #1f77b4; text-decoration: none; }
nav a.active { font-weight: bold; color: #222; }
main { padding: 1em 2em; flex: 1; overflow-x: auto; }
.row { display: flex; flex-wrap: nowrap; gap: 8px; }
.error { color: #b00020; }
.estimate { font-size: 1.4em; font-weight: bold; }
form label { display: block; margin: 0.6em 0; }
</style>
</head>
<body>
<nav><strong>PremiumLens</strong>
{{range .Pages}}<a href="/pages/{{.Slug}}"{{if eq . $.Page}} class="active"{{end}}>{{.}}</a>
{{end}}</nav>
<main>
{{end}}

{{define "footer"}}</main>
</body>
</html>
{{end}}

{{define "prediction.html"}}{{template "header" .}}
<h1>Insurance charges estimate</h1>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<form method="post" action="/predict">
<label>Region <select name="region">{{range .Choices.Region}}<option{{if eq . $.Selected.Region}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Sex <select name="sex">{{range .Choices.Sex}}<option{{if eq . $.Selected.Sex}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Smoker <select name="smoker">{{range .Choices.Smoker}}<option{{if eq . $.Selected.Smoker}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Children <select name="children">{{range .Choices.Children}}<option{{if eq . $.Selected.Children}} selected{{end}}>{{.}}</option>{{end}}</select></label>
<label>Age <input type="range" name="age" min="{{.Choices.AgeMin}}" max="{{.Choices.AgeMax}}" step="1" value="{{.Selected.Age}}" oninput="this.nextElementSibling.value = this.value"> <output>{{.Selected.Age}}</output></label>
<label>BMI <input type="range" name="bmi" min="{{.Choices.BMIMin}}" max="{{.Choices.BMIMax}}" step="any" value="{{.Selected.BMI}}" oninput="this.nextElementSibling.value = this.value"> <output>{{.Selected.BMI}}</output></label>
<button type="submit">Predict</button>
</form>
{{with .Estimate}}<p class="estimate">{{.}}</p>{{end}}
{{template "footer" .}}{{end}}

{{define "analysis.html"}}{{template "header" .}}
<h1>{{.Title}}</h1>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{range .Sections}}<h2>{{.Heading}}</h2>
{{.Figure}}
{{end}}
{{template "footer" .}}{{end}}

{{define "error.html"}}{{template "header" .}}
<h1>{{.Title}}</h1>
<p class="error">{{.Error}}</p>
{{template "footer" .}}{{end}}
`))
