package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard is the executive dashboard page. All data arrives through the
// /sse/dashboard signals patch; the page only holds layout, the filter
// controls, the chart containers and the counter tween.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Executive Performance Intelligence</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
html, body {
    margin: 0;
    background: linear-gradient(135deg, #0f2027, #203a43, #2c5364);
    color: white;
    font-family: "Segoe UI", system-ui, sans-serif;
}
.wrap { max-width: 1280px; margin: 0 auto; padding: 24px; }
.glass-card {
    background: rgba(255, 255, 255, 0.08);
    backdrop-filter: blur(14px);
    -webkit-backdrop-filter: blur(14px);
    border-radius: 16px;
    padding: 25px;
    border: 1px solid rgba(255,255,255,0.15);
    box-shadow: 0 8px 32px rgba(0,0,0,0.4);
}
.kpi-row { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; margin-bottom: 24px; }
.kpi-value { font-size: 32px; font-weight: 700; }
.chart-row { display: grid; grid-template-columns: 2fr 1fr; gap: 16px; margin-bottom: 24px; }
.chart-row.even { grid-template-columns: 1fr 1fr; }
.filters { display: flex; gap: 16px; align-items: flex-start; margin-bottom: 24px; flex-wrap: wrap; }
.filters label { display: block; font-size: 13px; opacity: 0.8; margin-bottom: 4px; }
.filters select {
    background: rgba(255,255,255,0.05); color: white;
    border: 1px solid rgba(255,255,255,0.2); border-radius: 8px; padding: 6px 10px;
}
.growth-banner { border-radius: 12px; padding: 14px 18px; font-weight: 600; }
.growth-up { background: rgba(0, 245, 196, 0.15); border: 1px solid #00f5c4; }
.growth-down { background: rgba(255, 107, 107, 0.15); border: 1px solid #ff6b6b; }
h1 { font-size: 26px; }
</style>
</head>
<body>
<div class="wrap"
     data-signals="{year: 0, regions: [], categories: [], dashboard: null}"
     data-on-load="el.dispatchEvent(new Event('boot'))"
     data-on-boot="bootFilters()">
  <h1>🚀 Executive Performance Intelligence</h1>

  <div class="filters glass-card">
    <div>
      <label for="year">Year</label>
      <select id="year" data-bind-year data-on-change="@get('/sse/dashboard')"></select>
    </div>
    <div>
      <label for="regions">Regions</label>
      <select id="regions" multiple data-on-change="$regions = selected(el); @get('/sse/dashboard')"></select>
    </div>
    <div>
      <label for="categories">Categories</label>
      <select id="categories" multiple data-on-change="$categories = selected(el); @get('/sse/dashboard')"></select>
    </div>
  </div>

  <div class="kpi-row">
    <div class="glass-card"><h4>Revenue</h4><div class="kpi-value" id="kpi-revenue">$0</div></div>
    <div class="glass-card"><h4>Profit</h4><div class="kpi-value" id="kpi-profit">$0</div></div>
    <div class="glass-card"><h4>Profit Margin</h4><div class="kpi-value" id="kpi-margin">0%</div></div>
  </div>

  <div class="chart-row">
    <div class="glass-card"><div id="chart-monthly"></div></div>
    <div class="glass-card"><div id="chart-categories"></div></div>
  </div>
  <div class="chart-row even">
    <div class="glass-card"><div id="chart-regions"></div></div>
    <div class="glass-card"><div id="chart-products"></div></div>
  </div>

  <div id="growth-banner" class="growth-banner"></div>

  <div data-effect="renderDashboard($dashboard)"></div>
</div>

<script>
const dark = {
    paper_bgcolor: 'rgba(0,0,0,0)', plot_bgcolor: 'rgba(0,0,0,0)',
    font: {color: 'white'}, margin: {t: 48, r: 16},
    transition: {duration: 800}
};

function selected(el) {
    return Array.from(el.selectedOptions).map(o => o.value);
}

async function bootFilters() {
    const res = await fetch('/api/filters');
    const body = await res.json();
    const {domain, default: def} = body.data;

    fillSelect('year', domain.years, [def.year]);
    fillSelect('regions', domain.regions, def.regions);
    fillSelect('categories', domain.categories, def.categories);

    const root = document.querySelector('.wrap');
    root.dispatchEvent(new CustomEvent('datastar-signal-patch', {detail: {
        year: def.year, regions: def.regions, categories: def.categories
    }}));
}

function fillSelect(id, values, picked) {
    const el = document.getElementById(id);
    el.innerHTML = '';
    for (const v of values) {
        const opt = document.createElement('option');
        opt.value = opt.textContent = v;
        opt.selected = picked.includes(v);
        el.appendChild(opt);
    }
    el.dispatchEvent(new Event('change'));
}

// Counter tween: the server sends only final values, the reveal is purely
// client-side.
function tween(id, target, format) {
    const el = document.getElementById(id);
    const from = Number(el.dataset.value || 0);
    const start = performance.now();
    el.dataset.value = target;
    function step(now) {
        const t = Math.min((now - start) / 600, 1);
        el.textContent = format(from + (target - from) * t);
        if (t < 1) requestAnimationFrame(step);
    }
    requestAnimationFrame(step);
}

const money = v => '$' + Math.round(v).toLocaleString();
const percent = v => v.toFixed(1) + '%';

function renderDashboard(d) {
    if (!d) return;

    tween('kpi-revenue', d.kpis.revenue, money);
    tween('kpi-profit', d.kpis.profit, money);
    tween('kpi-margin', d.kpis.margin_percent, percent);

    Plotly.react('chart-monthly', [{
        x: d.monthly_revenue.map(m => m.month),
        y: d.monthly_revenue.map(m => m.revenue),
        type: 'scatter', fill: 'tozeroy', line: {color: '#00f5c4'}
    }], {...dark, title: 'Monthly Revenue Flow'});

    Plotly.react('chart-categories', [{
        labels: d.category_profit.map(c => c.category),
        values: d.category_profit.map(c => c.profit),
        type: 'pie', hole: 0.65
    }], {...dark, title: 'Profit Distribution'});

    Plotly.react('chart-regions', [
        {x: d.region_performance.map(r => r.region), y: d.region_performance.map(r => r.sales),
         name: 'Sales', type: 'bar', marker: {color: '#00f5c4'}},
        {x: d.region_performance.map(r => r.region), y: d.region_performance.map(r => r.profit),
         name: 'Profit', type: 'bar', marker: {color: '#ff6b6b'}}
    ], {...dark, barmode: 'group', title: 'Regional Performance'});

    Plotly.react('chart-products', [{
        x: d.top_products.map(p => p.revenue),
        y: d.top_products.map(p => p.product),
        type: 'bar', orientation: 'h', marker: {color: '#00f5c4'}
    }], {...dark, title: 'Top Products', yaxis: {autorange: 'reversed'}});
}
</script>
</body>
</html>
`
